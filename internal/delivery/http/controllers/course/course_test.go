package course

import (
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/models"
	"Mumkin/internal/service/course/listing"
	"Mumkin/pkg/logger"
	"Mumkin/pkg/observable"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalog struct {
	mu      sync.Mutex
	courses *observable.Value[[]models.Course]
	added   []models.CourseDraft
	updated map[uuid.UUID]models.CoursePatch
	deleted []uuid.UUID
	uploads []string
}

func newFakeCatalog(courses ...models.Course) *fakeCatalog {
	return &fakeCatalog{courses: observable.New(courses), updated: map[uuid.UUID]models.CoursePatch{}}
}

func (f *fakeCatalog) Courses() observable.Reader[[]models.Course] { return f.courses }

func (f *fakeCatalog) Course(id uuid.UUID) (models.Course, bool) {
	for _, c := range f.courses.Get() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}

func (f *fakeCatalog) Search(ctx context.Context, q string, size int) ([]models.Course, error) {
	return listing.Match(f.courses.Get(), listing.CategoryAll, q), nil
}

func (f *fakeCatalog) Add(ctx context.Context, d models.CourseDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, d)
	return nil
}

func (f *fakeCatalog) Update(ctx context.Context, id uuid.UUID, p models.CoursePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = p
	return nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalog) UploadAsset(ctx context.Context, u models.Upload, bucket string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, _ := io.ReadAll(u.Body)
	f.uploads = append(f.uploads, bucket+"/"+u.Name+":"+string(body))
	return "https://cdn.test/" + bucket + "/" + u.Name, nil
}

func withUser(user *models.AppUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClientUserCtx, user)
		c.Set(middleware.ClientIDCtx, user.UID)
		c.Set(middleware.ClientRolesCtx, []string{user.Role})
		c.Next()
	}
}

func catalog() []models.Course {
	owner := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	var out []models.Course
	for i := 0; i < 8; i++ {
		out = append(out, models.Course{
			ID:           uuid.New(),
			Title:        fmt.Sprintf("Course %d", i),
			Category:     "design",
			Status:       models.StatusPublished,
			InstructorID: owner,
		})
	}
	out = append(out,
		models.Course{ID: uuid.New(), Title: "Go basics", Category: "code", Status: models.StatusPublished},
		models.Course{ID: uuid.New(), Title: "Hidden draft", Category: "code", Status: models.StatusDraft, InstructorID: owner},
	)
	return out
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestListCourses(t *testing.T) {
	h := NewQueryHandler(logger.Nop(), newFakeCatalog(catalog()...))
	r := gin.New()
	r.GET("/courses", h.ListCourses)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
		wantTotal int
		wantMore  bool
	}{
		{"first page", "", http.StatusOK, 6, 9, true},
		{"load more", "?visible=12", http.StatusOK, 9, 9, false},
		{"category", "?category=code", http.StatusOK, 1, 1, false},
		{"term", "?q=GO", http.StatusOK, 1, 1, false},
		{"bad window", "?visible=-1", http.StatusBadRequest, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses"+tt.query, nil))
			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			page := decode[listing.Page](t, w)
			if len(page.Courses) != tt.wantCount || page.Total != tt.wantTotal || page.HasMore != tt.wantMore {
				t.Errorf("page = %d/%d more=%v, want %d/%d more=%v",
					len(page.Courses), page.Total, page.HasMore, tt.wantCount, tt.wantTotal, tt.wantMore)
			}
		})
	}
}

func TestCourseByIDHidesDrafts(t *testing.T) {
	all := catalog()
	h := NewQueryHandler(logger.Nop(), newFakeCatalog(all...))
	r := gin.New()
	r.GET("/courses/:course_id", h.CourseByID)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"published", "/courses/" + all[0].ID.String(), http.StatusOK},
		{"draft", "/courses/" + all[9].ID.String(), http.StatusNotFound},
		{"unknown", "/courses/" + uuid.NewString(), http.StatusNotFound},
		{"malformed", "/courses/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestMyCourses(t *testing.T) {
	owner := &models.AppUser{UID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: models.RoleInstructor}
	adminUser := &models.AppUser{UID: uuid.New(), Role: models.RoleAdmin, IsAdmin: true}
	h := NewQueryHandler(logger.Nop(), newFakeCatalog(catalog()...))

	tests := []struct {
		name string
		user *models.AppUser
		want int
	}{
		{"instructor sees own courses including drafts", owner, 9},
		{"admin sees everything", adminUser, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/mine", withUser(tt.user), h.MyCourses)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mine", nil))
			got := decode[struct {
				Courses []models.Course `json:"courses"`
			}](t, w)
			if len(got.Courses) != tt.want {
				t.Errorf("courses = %d, want %d", len(got.Courses), tt.want)
			}
		})
	}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for k, content := range files {
		fw, err := mw.CreateFormFile(k, k+".bin")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestCreateCourseMultipart(t *testing.T) {
	cat := newFakeCatalog()
	h := NewManagementHandler(logger.Nop(), cat)
	user := &models.AppUser{UID: uuid.New(), DisplayName: "Nour", PhotoURL: "me.png", Role: models.RoleInstructor}
	r := gin.New()
	r.POST("/courses", withUser(user), h.CreateCourse)

	body, ct := multipartBody(t,
		map[string]string{
			"title":               "Color theory",
			"category":            "design",
			"what_you_will_learn": "hue\n\nvalue\n",
			"status":              "published",
			"lessons[1][title]":   "Second",
			"lessons[0][title]":   "First",
			"lessons[2][title]":   "",
		},
		map[string]string{
			"course_image":      "img",
			"lessons[1][video]": "vid",
		},
	)
	req := httptest.NewRequest(http.MethodPost, "/courses", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	if len(cat.added) != 1 {
		t.Fatalf("added %d courses, want 1", len(cat.added))
	}
	d := cat.added[0]
	if d.InstructorID != user.UID || d.InstructorName != "Nour" || d.Status != models.StatusPublished {
		t.Errorf("identity = %v %q %q", d.InstructorID, d.InstructorName, d.Status)
	}
	if len(d.Lessons) != 2 || d.Lessons[0].Title != "First" || d.Lessons[1].Title != "Second" {
		t.Fatalf("lessons = %+v, want First then Second", d.Lessons)
	}
	if d.Lessons[1].VideoURL != "https://cdn.test/lesson-videos/lessons[1][video].bin" {
		t.Errorf("lesson video = %q", d.Lessons[1].VideoURL)
	}
	if d.CourseImage != "https://cdn.test/course-images/course_image.bin" {
		t.Errorf("course image = %q", d.CourseImage)
	}
	if len(d.WhatYouWillLearn) != 2 {
		t.Errorf("what you will learn = %q", d.WhatYouWillLearn)
	}
}

func TestCreateCourseValidation(t *testing.T) {
	cat := newFakeCatalog()
	h := NewManagementHandler(logger.Nop(), cat)
	user := &models.AppUser{UID: uuid.New(), Role: models.RoleInstructor}
	r := gin.New()
	r.POST("/courses", withUser(user), h.CreateCourse)

	body, ct := multipartBody(t, map[string]string{"title": "   "}, map[string]string{"course_image": "img"})
	req := httptest.NewRequest(http.MethodPost, "/courses", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	if len(cat.uploads) != 0 || len(cat.added) != 0 {
		t.Errorf("backend touched: uploads=%v added=%d", cat.uploads, len(cat.added))
	}
}

func TestInstructorCannotTouchOthersCourse(t *testing.T) {
	all := catalog()
	cat := newFakeCatalog(all...)
	h := NewManagementHandler(logger.Nop(), cat)
	stranger := &models.AppUser{UID: uuid.New(), Role: models.RoleInstructor}
	r := gin.New()
	r.DELETE("/courses/:course_id", withUser(stranger), h.DeleteCourse)
	r.PATCH("/courses/:course_id/status", withUser(stranger), h.SetStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/courses/"+all[0].ID.String(), nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("DELETE = %d, want 403", w.Code)
	}

	req := httptest.NewRequest(http.MethodPatch, "/courses/"+all[0].ID.String()+"/status",
		bytes.NewBufferString(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("PATCH status = %d, want 403", w.Code)
	}
	if len(cat.deleted) != 0 || len(cat.updated) != 0 {
		t.Errorf("foreign course was modified")
	}
}

func TestOwnerArchivesCourse(t *testing.T) {
	all := catalog()
	cat := newFakeCatalog(all...)
	h := NewManagementHandler(logger.Nop(), cat)
	owner := &models.AppUser{UID: all[0].InstructorID, Role: models.RoleInstructor}
	r := gin.New()
	r.PATCH("/courses/:course_id/status", withUser(owner), h.SetStatus)

	req := httptest.NewRequest(http.MethodPatch, "/courses/"+all[0].ID.String()+"/status",
		bytes.NewBufferString(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	p, ok := cat.updated[all[0].ID]
	if !ok || p.Status == nil || *p.Status != models.StatusArchived {
		t.Errorf("patch = %+v, want archived status", p)
	}
}
