package application

import (
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/delivery/http/controllers/response"
	"Mumkin/internal/delivery/http/controllers/upload"
	"Mumkin/internal/models"
	"Mumkin/internal/service/application"
	"Mumkin/pkg/logger"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationService interface {
	Submit(ctx context.Context, user *models.AppUser, f application.Form) (uuid.UUID, error)
	List(ctx context.Context) ([]models.InstructorApplication, error)
	Decide(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error
	PendingCount(ctx context.Context) (int, error)
}

type ApplicationHandler struct {
	log     logger.Log
	service ApplicationService
}

func NewApplicationHandler(l logger.Log, s ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{log: l, service: s}
}

func (h *ApplicationHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": application.Questions})
}

// Submit reads a multipart form: cv, method, linkedin_url, bio,
// expertise_field and either answers[i] or recordings[i] per question.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	files := upload.New(c)
	defer files.Close()

	form := application.Form{
		Method:         application.Method(c.PostForm("method")),
		LinkedinURL:    c.PostForm("linkedin_url"),
		Bio:            c.PostForm("bio"),
		ExpertiseField: c.PostForm("expertise_field"),
	}
	var err error
	if form.CV, err = files.Get("cv"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	switch form.Method {
	case application.MethodWritten:
		for i := range application.Questions {
			form.Written = append(form.Written, c.PostForm(fmt.Sprintf("answers[%d]", i)))
		}
	case application.MethodVideo:
		for i := range application.Questions {
			rec, err := files.Get(fmt.Sprintf("recordings[%d]", i))
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			form.Recordings = append(form.Recordings, rec)
		}
	}

	id, err := h.service.Submit(c.Request.Context(), user, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) PendingCount(c *gin.Context) {
	n, err := h.service.PendingCount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": n})
}

type decisionRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

func (h *ApplicationHandler) Decide(c *gin.Context) {
	id, err := uuid.Parse(c.Param("application_id"))
	if err != nil {
		response.BadRequest(c, "invalid application_id")
		return
	}
	var input decisionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.Decide(c.Request.Context(), id, input.Status); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": input.Status})
}
