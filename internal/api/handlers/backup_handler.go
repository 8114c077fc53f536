package handlers

import (
	"net/http"

	serviceInterfaces "course-planner/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// BackupHandler handles the upstream snapshot endpoints
type BackupHandler struct {
	backupService serviceInterfaces.BackupService
}

func NewBackupHandler(backupService serviceInterfaces.BackupService) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// LoadCurriculum handles POST /api/v1/backups/curriculum
func (h *BackupHandler) LoadCurriculum(c *gin.Context) {
	var req serviceInterfaces.CurriculumBackupRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.backupService.LoadCurriculum(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to load curriculum backup")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"items": n},
	})
}

// GetCurriculum handles GET /api/v1/backups/curriculum/:career/:catalog
func (h *BackupHandler) GetCurriculum(c *gin.Context) {
	data, err := h.backupService.GetCurriculum(c.Request.Context(), c.Param("career"), c.Param("catalog"))
	if err != nil {
		respondError(c, err, "Failed to get curriculum backup")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// LoadHistory handles POST /api/v1/backups/history
func (h *BackupHandler) LoadHistory(c *gin.Context) {
	var req serviceInterfaces.HistoryBackupRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.backupService.LoadHistory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to load history backup")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"items": n},
	})
}

// GetHistory handles GET /api/v1/backups/history?student_id=&career_code=
func (h *BackupHandler) GetHistory(c *gin.Context) {
	if !requireQuery(c, "student_id", "career_code") {
		return
	}

	data, err := h.backupService.GetHistory(c.Request.Context(), c.Query("student_id"), c.Query("career_code"))
	if err != nil {
		respondError(c, err, "Failed to get history backup")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Refresh handles POST /api/v1/backups/refresh
func (h *BackupHandler) Refresh(c *gin.Context) {
	report, err := h.backupService.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to refresh backups")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    report,
	})
}
