package instructor

import (
	"Mumkin/internal/delivery/http/controllers/response"
	"Mumkin/internal/models"
	"Mumkin/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InstructorService interface {
	List(ctx context.Context) ([]models.AppUser, error)
	Suspend(ctx context.Context, id uuid.UUID) error
	Notify(ctx context.Context, userID uuid.UUID, message string, courseID *uuid.UUID) (uuid.UUID, error)
}

type InstructorHandler struct {
	log     logger.Log
	service InstructorService
}

func NewInstructorHandler(l logger.Log, s InstructorService) *InstructorHandler {
	return &InstructorHandler{log: l, service: s}
}

func userParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid user_id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *InstructorHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instructors": users})
}

func (h *InstructorHandler) Suspend(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	if err := h.service.Suspend(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type notifyRequest struct {
	Message  string     `json:"message"`
	CourseID *uuid.UUID `json:"course_id"`
}

func (h *InstructorHandler) Notify(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	var input notifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	nid, err := h.service.Notify(c.Request.Context(), id, input.Message, input.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": nid})
}
