package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/shared/errors"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/utils"
)

type CaseHandler struct {
	service caseService
	logger  logger.Interface
}

func NewCaseHandler(service caseService, logger logger.Interface) *CaseHandler {
	return &CaseHandler{service: service, logger: logger}
}

// @Summary		Get case summary
// @Description	Case title, status, court and the description rendered to sanitized HTML
// @Tags			cases
// @Produce		json
// @Param			id	path		string								true	"Case ID"
// @Success		200	{object}	utils.APIResponse{data=CaseResponse}	"Case summary"
// @Failure		404	{object}	utils.APIResponse					"Case not found"
// @Router			/api/cases/{id} [get]
func (h *CaseHandler) GetCase(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("case id is required"))
		return
	}

	view, err := h.service.GetCase(c.Request.Context(), caseID)
	if err != nil {
		if !errors.IsNotFoundError(toAppError(err)) {
			h.logger.Errorw("failed to load case", "case_id", caseID, "error", err)
		}
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", view)
}
