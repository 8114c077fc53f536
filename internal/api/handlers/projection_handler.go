package handlers

import (
	"fmt"
	"net/http"

	"course-planner/internal/api/middleware"
	serviceInterfaces "course-planner/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProjectionHandler handles projection-related HTTP requests
type ProjectionHandler struct {
	projectionService serviceInterfaces.ProjectionService
}

// NewProjectionHandler creates a new projection handler
func NewProjectionHandler(projectionService serviceInterfaces.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{
		projectionService: projectionService,
	}
}

// Generate handles POST /api/v1/projections/generate
func (h *ProjectionHandler) Generate(c *gin.Context) {
	var req serviceInterfaces.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.projectionService.Generate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to generate projection")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

// GenerateWithOffer handles POST /api/v1/projections/generate-with-offer
func (h *ProjectionHandler) GenerateWithOffer(c *gin.Context) {
	var req serviceInterfaces.WithOfferRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.projectionService.GenerateWithOffer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to generate projection")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

// Options handles POST /api/v1/projections/options
func (h *ProjectionHandler) Options(c *gin.Context) {
	var req serviceInterfaces.OptionsRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.projectionService.GenerateOptions(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to generate options")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    resp,
	})
}

// Save handles POST /api/v1/projections
func (h *ProjectionHandler) Save(c *gin.Context) {
	var req serviceInterfaces.SaveRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := h.projectionService.Save(c.Request.Context(), &req, c.GetString(middleware.IdempotencyKeyContext))
	if err != nil {
		respondError(c, err, "Failed to save projection")
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Projection saved successfully",
		Data:    saved,
	})
}

// SaveDirect handles POST /api/v1/projections/direct
func (h *ProjectionHandler) SaveDirect(c *gin.Context) {
	var req serviceInterfaces.SaveDirectRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := h.projectionService.SaveDirect(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to save projection")
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Projection saved successfully",
		Data:    saved,
	})
}

// List handles GET /api/v1/projections?student_id=
func (h *ProjectionHandler) List(c *gin.Context) {
	if !requireQuery(c, "student_id") {
		return
	}

	projections, err := h.projectionService.List(c.Request.Context(), c.Query("student_id"))
	if err != nil {
		respondError(c, err, "Failed to list projections")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    projections,
	})
}

// SetFavorite handles PATCH /api/v1/projections/:id/favorite
func (h *ProjectionHandler) SetFavorite(c *gin.Context) {
	var req serviceInterfaces.FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projectionService.SetFavorite(c.Request.Context(), req.StudentID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to set favorite")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Favorite updated",
	})
}

// Rename handles PATCH /api/v1/projections/:id/name
func (h *ProjectionHandler) Rename(c *gin.Context) {
	var req serviceInterfaces.RenameRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.projectionService.Rename(c.Request.Context(), req.StudentID, c.Param("id"), req.Name); err != nil {
		respondError(c, err, "Failed to rename projection")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Projection renamed",
	})
}

// Delete handles DELETE /api/v1/projections/:id?student_id=
func (h *ProjectionHandler) Delete(c *gin.Context) {
	if !requireQuery(c, "student_id") {
		return
	}

	if err := h.projectionService.Delete(c.Request.Context(), c.Query("student_id"), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete projection")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Projection deleted",
	})
}

// Demand handles GET /api/v1/projections/demand?career_code=&by=section
func (h *ProjectionHandler) Demand(c *gin.Context) {
	entries, err := h.projectionService.Demand(c.Request.Context(), c.Query("career_code"), c.Query("by") == "section")
	if err != nil {
		respondError(c, err, "Failed to aggregate demand")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    entries,
	})
}

// DemandExport handles GET /api/v1/projections/demand/export
func (h *ProjectionHandler) DemandExport(c *gin.Context) {
	careerCode := c.Query("career_code")
	data, err := h.projectionService.DemandWorkbook(c.Request.Context(), careerCode, c.Query("by") == "section")
	if err != nil {
		respondError(c, err, "Failed to export demand")
		return
	}

	filename := "demand.xlsx"
	if careerCode != "" {
		filename = fmt.Sprintf("demand_%s.xlsx", careerCode)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
