package handlers

import (
	"net/http"

	interfaces "course-planner/internal/interfaces/infrastructure"

	"github.com/gin-gonic/gin"
)

// UpstreamHandler proxies the university services through the gateway
type UpstreamHandler struct {
	gateway interfaces.UpstreamGateway
}

func NewUpstreamHandler(gateway interfaces.UpstreamGateway) *UpstreamHandler {
	return &UpstreamHandler{
		gateway: gateway,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/v1/upstream/login
func (h *UpstreamHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.gateway.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Curriculum handles GET /api/v1/upstream/curriculum/:career/:catalog
func (h *UpstreamHandler) Curriculum(c *gin.Context) {
	data, err := h.gateway.Curriculum(c.Request.Context(), c.Param("career"), c.Param("catalog"))
	if err != nil {
		respondError(c, err, "Failed to fetch curriculum")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// History handles GET /api/v1/upstream/history?student_id=&career_code=
func (h *UpstreamHandler) History(c *gin.Context) {
	if !requireQuery(c, "student_id", "career_code") {
		return
	}

	data, err := h.gateway.History(c.Request.Context(), c.Query("student_id"), c.Query("career_code"))
	if err != nil {
		respondError(c, err, "Failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}
