package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savedeities/contribute/internal/domain/contribution"
	"github.com/savedeities/contribute/internal/shared/logger"
	"github.com/savedeities/contribute/internal/shared/utils"
)

const checkoutScriptCacheControl = "public, max-age=3600"

// AssetHandler serves the gateway's checkout library from this origin.
type AssetHandler struct {
	scripts checkoutScriptSource
	logger  logger.Interface
}

func NewAssetHandler(scripts checkoutScriptSource, logger logger.Interface) *AssetHandler {
	return &AssetHandler{scripts: scripts, logger: logger}
}

// @Summary		Gateway checkout library
// @Tags			assets
// @Produce		application/javascript
// @Success		200	{string}	string				"Checkout library"
// @Success		304	{string}	string				"Not modified"
// @Failure		503	{object}	utils.APIResponse	"Library unavailable"
// @Router			/assets/checkout.js [get]
func (h *AssetHandler) CheckoutScript(c *gin.Context) {
	if err := h.scripts.EnsureLoaded(c.Request.Context()); err != nil {
		h.logger.Warnw("checkout script unavailable", "error", err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, contribution.MessageScriptLoadFailed)
		return
	}

	body, etag, err := h.scripts.Script()
	if err != nil {
		h.logger.Errorw("checkout script missing after load", "error", err)
		utils.ErrorResponse(c, http.StatusServiceUnavailable, contribution.MessageScriptLoadFailed)
		return
	}

	c.Header("Cache-Control", checkoutScriptCacheControl)
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.AbortWithStatus(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", body)
}
