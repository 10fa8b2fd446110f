package course

import (
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/delivery/http/controllers/response"
	"Mumkin/internal/delivery/http/controllers/upload"
	"Mumkin/internal/models"
	"Mumkin/internal/service/course/authoring"
	"Mumkin/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ManagementService interface {
	Course(id uuid.UUID) (models.Course, bool)
	Add(ctx context.Context, draft models.CourseDraft) error
	Update(ctx context.Context, id uuid.UUID, patch models.CoursePatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	UploadAsset(ctx context.Context, u models.Upload, bucket string) (string, error)
}

type ManagementHandler struct {
	log     logger.Log
	service ManagementService
}

func NewManagementHandler(l logger.Log, s ManagementService) *ManagementHandler {
	return &ManagementHandler{
		log:     l,
		service: s,
	}
}

// submitter picks the authoring mode from the caller's role.
func (h *ManagementHandler) submitter(user *models.AppUser) *authoring.Submitter {
	mode := authoring.ModeInstructor
	if user.IsAdmin {
		mode = authoring.ModeAdmin
	}
	return authoring.NewSubmitter(h.log, mode, h.service)
}

func (h *ManagementHandler) CreateCourse(c *gin.Context) {
	h.submit(c, nil)
}

func (h *ManagementHandler) UpdateCourse(c *gin.Context) {
	course, ok := h.existing(c)
	if !ok {
		return
	}
	h.submit(c, &course)
}

func (h *ManagementHandler) submit(c *gin.Context, editing *models.Course) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}
	files := upload.New(c)
	defer files.Close()

	sub, err := parseSubmission(form, files)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	s := h.submitter(user)
	if err := s.Submit(c.Request.Context(), user, editing, sub); err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if editing != nil {
		status = http.StatusOK
	}
	c.JSON(status, s.State().Get())
}

type statusRequest struct {
	Status models.CourseStatus `json:"status" binding:"required"`
}

func (h *ManagementHandler) SetStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	var input statusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	course, ok := h.existing(c)
	if !ok {
		return
	}

	s := h.submitter(user)
	if err := s.SetStatus(c.Request.Context(), user, course, input.Status); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s.State().Get())
}

func (h *ManagementHandler) DeleteCourse(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	course, ok := h.existing(c)
	if !ok {
		return
	}
	if err := h.submitter(user).Delete(c.Request.Context(), user, course); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ManagementHandler) existing(c *gin.Context) (models.Course, bool) {
	id, ok := courseParam(c, "course_id")
	if !ok {
		return models.Course{}, false
	}
	course, found := h.service.Course(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return models.Course{}, false
	}
	return course, true
}
