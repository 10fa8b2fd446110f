package course

import (
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/models"
	"Mumkin/internal/service/course/listing"
	"Mumkin/pkg/logger"
	"Mumkin/pkg/observable"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueryService interface {
	Courses() observable.Reader[[]models.Course]
	Course(id uuid.UUID) (models.Course, bool)
	Search(ctx context.Context, query string, size int) ([]models.Course, error)
}

type QueryHandler struct {
	log     logger.Log
	service QueryService
}

func NewQueryHandler(log logger.Log, s QueryService) *QueryHandler {
	return &QueryHandler{
		log:     log,
		service: s,
	}
}

const relatedCount = 3

func published(all []models.Course) []models.Course {
	out := make([]models.Course, 0, len(all))
	for _, c := range all {
		if c.Status == models.StatusPublished {
			out = append(out, c)
		}
	}
	return out
}

func positiveQuery(c *gin.Context, key string, def int) (int, bool) {
	s := c.Query(key)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a positive integer"})
		return 0, false
	}
	return v, true
}

func courseParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// ListCourses filters the published catalog by category and term and
// returns the first visible entries.
func (h *QueryHandler) ListCourses(c *gin.Context) {
	visible, ok := positiveQuery(c, "visible", listing.PageSize)
	if !ok {
		return
	}
	category := c.DefaultQuery("category", listing.CategoryAll)
	filtered := listing.Match(published(h.service.Courses().Get()), category, c.Query("q"))
	c.JSON(http.StatusOK, listing.Window(filtered, visible))
}

func (h *QueryHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": listing.Categories(published(h.service.Courses().Get()))})
}

func (h *QueryHandler) CourseByID(c *gin.Context) {
	id, ok := courseParam(c, "course_id")
	if !ok {
		return
	}
	course, found := h.service.Course(id)
	if !found || course.Status != models.StatusPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *QueryHandler) Related(c *gin.Context) {
	id, ok := courseParam(c, "course_id")
	if !ok {
		return
	}
	n, ok := positiveQuery(c, "n", relatedCount)
	if !ok {
		return
	}
	course, found := h.service.Course(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	related := listing.Related(published(h.service.Courses().Get()), course, n)
	c.JSON(http.StatusOK, gin.H{"courses": nonNil(related)})
}

func (h *QueryHandler) Search(c *gin.Context) {
	size, ok := positiveQuery(c, "size", 20)
	if !ok {
		return
	}
	found, err := h.service.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.log.ErrorErr("course search failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": published(found)})
}

func (h *QueryHandler) ByInstructor(c *gin.Context) {
	id, ok := courseParam(c, "user_id")
	if !ok {
		return
	}
	courses := listing.ByInstructor(published(h.service.Courses().Get()), id)
	c.JSON(http.StatusOK, gin.H{"courses": nonNil(courses)})
}

// MyCourses lists every course the caller may manage, whatever its status.
func (h *QueryHandler) MyCourses(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	all := h.service.Courses().Get()
	if !user.IsAdmin {
		all = listing.ByInstructor(all, user.UID)
	}
	c.JSON(http.StatusOK, gin.H{"courses": nonNil(all)})
}

func nonNil(c []models.Course) []models.Course {
	if c == nil {
		return []models.Course{}
	}
	return c
}
