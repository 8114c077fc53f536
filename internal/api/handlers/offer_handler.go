package handlers

import (
	"net/http"

	serviceInterfaces "course-planner/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// OfferHandler handles the timetable offer endpoints
type OfferHandler struct {
	offerService serviceInterfaces.OfferService
}

func NewOfferHandler(offerService serviceInterfaces.OfferService) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
	}
}

// Load handles POST /api/v1/offers
func (h *OfferHandler) Load(c *gin.Context) {
	var req serviceInterfaces.LoadOfferRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.offerService.LoadCSV(c.Request.Context(), req.CSV)
	if err != nil {
		respondError(c, err, "Failed to load offer")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Offer loaded successfully",
		Data:    resp,
	})
}

// List handles GET /api/v1/offers?course=&term=
func (h *OfferHandler) List(c *gin.Context) {
	if !requireQuery(c, "course", "term") {
		return
	}

	sections, err := h.offerService.List(c.Request.Context(), c.Query("course"), c.Query("term"))
	if err != nil {
		respondError(c, err, "Failed to list offer")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    sections,
	})
}
