package handler

import (
	"net/http"

	"github.com/romaxnova/dvf-api/internal/apierror"
	"github.com/romaxnova/dvf-api/internal/service"

	"github.com/gin-gonic/gin"
)

// DVFHandler serves the transaction query endpoints.
type DVFHandler struct {
	svc service.DVFService
}

func NewDVFHandler(svc service.DVFService) *DVFHandler {
	return &DVFHandler{svc: svc}
}

// List GET /api/dvf
//
// Query: bbox, limit (default 1000), year_min, year_max, price_min,
// price_max, price_m2_min, price_m2_max. Returns flat rows.
func (h *DVFHandler) List(c *gin.Context) {
	rows, err := h.svc.Search(c.Request.Context(), parseFilter(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(apierror.MsgQueryFailed))
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Grouped GET /api/dvf/grouped
//
// Query: bbox, year_min, year_max, price_min, price_max. Returns one object
// per sale with its lots nested, newest first, at most 1000.
func (h *DVFHandler) Grouped(c *gin.Context) {
	groups, err := h.svc.SearchGrouped(c.Request.Context(), parseFilter(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(apierror.MsgQueryFailed))
		return
	}
	c.JSON(http.StatusOK, groups)
}
