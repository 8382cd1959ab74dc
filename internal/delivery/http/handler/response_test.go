package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdugdh24/compatible-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{err: domain.ErrEmptyContent, want: http.StatusBadRequest},
		{err: domain.ErrNotParticipant, want: http.StatusForbidden},
		{err: domain.ErrMessageNotFound, want: http.StatusNotFound},
		{err: domain.ErrCannotReadOwn, want: http.StatusConflict},
		{err: fmt.Errorf("failed to get match: %w", domain.ErrMatchNotFound), want: http.StatusNotFound},
		{err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondError(c, zap.NewNop(), tt.err, "failed")
		if w.Code != tt.want {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.want, w.Code)
		}
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, zap.NewNop(), errors.New("pq: password authentication failed"), "failed to get messages")
	if w.Body.String() != `{"error":"failed to get messages"}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
