package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gdugdh24/compatible-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// currentProfileID reads the profile id set by the auth middleware and
// aborts with 401 when it is missing.
func currentProfileID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ProfileIDKey)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return uuid.Nil, false
	}
	profileID, ok := value.(uuid.UUID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return uuid.Nil, false
	}
	return profileID, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("invalid %s", name),
		})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain error kinds onto HTTP statuses. Anything that is
// not a domain error is logged and reported as a generic 500 with fallback
// as the message.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPreconditionFailed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// bindingError turns a ShouldBindJSON failure into a 400 body that names the
// offending fields when the validator reports them.
func bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body: " + strings.Join(fields, ", "),
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: "invalid request body",
	})
}
