package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/compatible-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
	logger       *zap.Logger
}

func NewMatchHandler(matchUseCase *match.MatchUseCase, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
		logger:       logger,
	}
}

// GetPotentialMatches handles GET /matches/potential
// @Summary Get potential matches
// @Description Active profiles the caller has no match record with
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param count query int false "Max profiles to return (default 20, max 100)"
// @Success 200 {array} domain.ProfileWithPhotos
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/potential [get]
func (h *MatchHandler) GetPotentialMatches(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	count := 0
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid count",
			})
			return
		}
		count = parsed
	}

	profiles, err := h.matchUseCase.GetPotentialMatches(c.Request.Context(), profileID, count)
	if err != nil {
		respondError(c, h.logger, err, "failed to get potential matches")
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// Like handles POST /matches/:profile_id/like
// @Summary Like a profile
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param profile_id path string true "Target profile id"
// @Success 200 {object} domain.Match
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/{profile_id}/like [post]
func (h *MatchHandler) Like(c *gin.Context) {
	h.setOutcome(c, true)
}

// Dislike handles POST /matches/:profile_id/dislike
// @Summary Dislike a profile
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param profile_id path string true "Target profile id"
// @Success 200 {object} domain.Match
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/{profile_id}/dislike [post]
func (h *MatchHandler) Dislike(c *gin.Context) {
	h.setOutcome(c, false)
}

func (h *MatchHandler) setOutcome(c *gin.Context, accepted bool) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	targetID, ok := parseUUIDParam(c, "profile_id")
	if !ok {
		return
	}

	result, err := h.matchUseCase.SetMatchOutcome(c.Request.Context(), profileID, targetID, accepted)
	if err != nil {
		respondError(c, h.logger, err, "failed to update match")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMatches handles GET /matches
// @Summary List my matches
// @Description Every match record the caller participates in, any state
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Match
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	matches, err := h.matchUseCase.GetProfileMatches(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get matches")
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetAcceptedMatches handles GET /matches/accepted
// @Summary List accepted matches
// @Description Accepted matches enriched with both participants and their photos
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.MatchWithProfiles
// @Router /matches/accepted [get]
func (h *MatchHandler) GetAcceptedMatches(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}

	matches, err := h.matchUseCase.GetAcceptedMatches(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get accepted matches")
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetMatchByID handles GET /matches/id/:match_id
// @Summary Get a match
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param match_id path string true "Match id"
// @Success 200 {object} domain.Match
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/id/{match_id} [get]
func (h *MatchHandler) GetMatchByID(c *gin.Context) {
	profileID, ok := currentProfileID(c)
	if !ok {
		return
	}
	matchID, ok := parseUUIDParam(c, "match_id")
	if !ok {
		return
	}

	result, err := h.matchUseCase.GetMatchByID(c.Request.Context(), matchID, profileID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get match")
		return
	}

	c.JSON(http.StatusOK, result)
}
