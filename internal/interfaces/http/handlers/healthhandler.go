package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/shared/utils"
	"github.com/savedeities/contribute/internal/shared/version"
)

type HealthHandler struct {
	sessions sessionCounter
}

func NewHealthHandler(sessions sessionCounter) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

type HealthResponse struct {
	Status         string       `json:"status"`
	Version        version.Info `json:"version"`
	ActiveSessions int          `json:"active_sessions"`
}

// @Summary		Health check
// @Tags			system
// @Produce		json
// @Success		200	{object}	utils.APIResponse{data=HealthResponse}	"Service is healthy"
// @Router			/health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: version.Current(),
	}
	if h.sessions != nil {
		resp.ActiveSessions = h.sessions.Len()
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
