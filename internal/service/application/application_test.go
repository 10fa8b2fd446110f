package application

import (
	"Mumkin/internal/app_errors"
	"Mumkin/internal/models"
	"Mumkin/pkg/logger"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type fakeApps struct {
	applied  bool
	created  []models.InstructorApplication
	rows     []models.InstructorApplication
	statuses map[uuid.UUID]models.ApplicationStatus
	owners   map[uuid.UUID]uuid.UUID
}

func (f *fakeApps) Create(ctx context.Context, a models.InstructorApplication) (uuid.UUID, error) {
	f.created = append(f.created, a)
	return uuid.New(), nil
}

func (f *fakeApps) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f.applied, nil
}

func (f *fakeApps) List(ctx context.Context) ([]models.InstructorApplication, error) {
	return append([]models.InstructorApplication(nil), f.rows...), nil
}

func (f *fakeApps) UserID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	u, ok := f.owners[id]
	if !ok {
		return uuid.Nil, app_errors.ErrApplicationNotFound
	}
	return u, nil
}

func (f *fakeApps) SetStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	if f.statuses == nil {
		f.statuses = map[uuid.UUID]models.ApplicationStatus{}
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeApps) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int, error) {
	n := 0
	for _, a := range f.rows {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeProfiles struct {
	profiles []models.Profile
	roles    map[uuid.UUID]string
}

func (f *fakeProfiles) ProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	return f.profiles, nil
}

func (f *fakeProfiles) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	if f.roles == nil {
		f.roles = map[uuid.UUID]string{}
	}
	f.roles[id] = role
	return nil
}

type fakeUploader struct {
	mu      sync.Mutex
	buckets map[string]int
	failOn  string
}

func (f *fakeUploader) UploadAsset(ctx context.Context, u models.Upload, bucket string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.buckets == nil {
		f.buckets = map[string]int{}
	}
	f.buckets[bucket]++
	if u.Name == f.failOn {
		return "", &app_errors.UploadError{Bucket: bucket, Name: u.Name, Err: errors.New("boom")}
	}
	return "https://cdn.test/" + bucket + "/" + u.Name, nil
}

func file(name string) *models.Upload {
	return &models.Upload{Name: name, Size: 3, Body: strings.NewReader("abc")}
}

func writtenForm() Form {
	return Form{
		Method:         MethodWritten,
		CV:             file("cv.pdf"),
		Bio:            "<b>Teacher</b> of things",
		ExpertiseField: " Math ",
		Written:        []string{"  I teach algebra ", "I like helping", "Fractions are slices"},
	}
}

func TestSubmitWritten(t *testing.T) {
	apps := &fakeApps{}
	up := &fakeUploader{}
	svc := NewApplicationService(logger.Nop(), apps, &fakeProfiles{}, up)
	user := &models.AppUser{UID: uuid.New()}

	if _, err := svc.Submit(context.Background(), user, writtenForm()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(apps.created) != 1 {
		t.Fatalf("created %d applications, want 1", len(apps.created))
	}
	got := apps.created[0]
	if got.Status != models.ApplicationPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.CVURL != "https://cdn.test/cvs/cv.pdf" {
		t.Errorf("cv url = %q", got.CVURL)
	}
	if got.Bio != "Teacher of things" {
		t.Errorf("bio = %q, want tags stripped", got.Bio)
	}
	if got.ExpertiseField != "Math" {
		t.Errorf("expertise = %q", got.ExpertiseField)
	}
	if len(got.Answers) != len(Questions) {
		t.Fatalf("answers = %d, want %d", len(got.Answers), len(Questions))
	}
	if got.Answers[0].Question != Questions[0] || got.Answers[0].Answer != "I teach algebra" || got.Answers[0].URL != "" {
		t.Errorf("answer[0] = %+v", got.Answers[0])
	}
	if up.buckets[models.BucketInterviewVideos] != 0 {
		t.Errorf("written method uploaded recordings")
	}
}

func TestSubmitVideoUploadsRecordings(t *testing.T) {
	apps := &fakeApps{}
	up := &fakeUploader{}
	svc := NewApplicationService(logger.Nop(), apps, &fakeProfiles{}, up)

	f := Form{Method: MethodVideo, CV: file("cv.pdf"), Recordings: []*models.Upload{file("a.webm"), file("b.webm"), file("c.webm")}}
	if _, err := svc.Submit(context.Background(), &models.AppUser{UID: uuid.New()}, f); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if n := up.buckets[models.BucketInterviewVideos]; n != 3 {
		t.Errorf("recording uploads = %d, want 3", n)
	}
	if got := apps.created[0].Answers[1].URL; got != "https://cdn.test/interview-videos/b.webm" {
		t.Errorf("answer[1].URL = %q, want recording kept in position", got)
	}
}

func TestSubmitRejects(t *testing.T) {
	short := writtenForm()
	short.Written[2] = "  ok   "
	noCV := writtenForm()
	noCV.CV = nil
	missingVideo := Form{Method: MethodVideo, CV: file("cv.pdf"), Recordings: []*models.Upload{file("a.webm"), nil, file("c.webm")}}

	tests := []struct {
		name string
		form Form
	}{
		{"short written answer", short},
		{"missing cv", noCV},
		{"missing recording", missingVideo},
		{"unknown method", Form{Method: "carrier pigeon", CV: file("cv.pdf")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := &fakeApps{}
			up := &fakeUploader{}
			svc := NewApplicationService(logger.Nop(), apps, &fakeProfiles{}, up)
			_, err := svc.Submit(context.Background(), &models.AppUser{UID: uuid.New()}, tt.form)
			if !app_errors.IsValidation(err) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if len(up.buckets) != 0 || len(apps.created) != 0 {
				t.Errorf("backend touched on invalid form")
			}
		})
	}
}

func TestSubmitAlreadyApplied(t *testing.T) {
	apps := &fakeApps{applied: true}
	up := &fakeUploader{}
	svc := NewApplicationService(logger.Nop(), apps, &fakeProfiles{}, up)
	_, err := svc.Submit(context.Background(), &models.AppUser{UID: uuid.New()}, writtenForm())
	if !errors.Is(err, app_errors.ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}
	if len(up.buckets) != 0 {
		t.Errorf("uploads ran for a duplicate application")
	}
}

func TestSubmitUploadFailureStoresNothing(t *testing.T) {
	apps := &fakeApps{}
	svc := NewApplicationService(logger.Nop(), apps, &fakeProfiles{}, &fakeUploader{failOn: "cv.pdf"})
	_, err := svc.Submit(context.Background(), &models.AppUser{UID: uuid.New()}, writtenForm())
	if !app_errors.IsUpload(err) {
		t.Fatalf("err = %v, want upload error", err)
	}
	if len(apps.created) != 0 {
		t.Errorf("application stored after failed upload")
	}
}

func TestListJoinsApplicants(t *testing.T) {
	known, unknown := uuid.New(), uuid.New()
	apps := &fakeApps{rows: []models.InstructorApplication{
		{ID: uuid.New(), UserID: known, Status: models.ApplicationPending},
		{ID: uuid.New(), UserID: unknown, Status: models.ApplicationRejected},
		{ID: uuid.New(), Status: models.ApplicationPending},
	}}
	profiles := &fakeProfiles{profiles: []models.Profile{{ID: known, FullName: "Sara", AvatarURL: "a.png"}}}
	svc := NewApplicationService(logger.Nop(), apps, profiles, &fakeUploader{})

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Sara", "Profile Not Found", "User ID Missing"}
	for i, name := range want {
		if got[i].Applicant.FullName != name {
			t.Errorf("applicant[%d] = %q, want %q", i, got[i].Applicant.FullName, name)
		}
	}
	n, _ := svc.PendingCount(context.Background())
	if n != 2 {
		t.Errorf("PendingCount = %d, want 2", n)
	}
}

func TestDecide(t *testing.T) {
	appID, userID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		status   models.ApplicationStatus
		wantRole string
	}{
		{"approve promotes", models.ApplicationApproved, models.RoleInstructor},
		{"reject keeps role", models.ApplicationRejected, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps := &fakeApps{owners: map[uuid.UUID]uuid.UUID{appID: userID}}
			profiles := &fakeProfiles{}
			svc := NewApplicationService(logger.Nop(), apps, profiles, &fakeUploader{})
			if err := svc.Decide(context.Background(), appID, tt.status); err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if apps.statuses[appID] != tt.status {
				t.Errorf("status = %q, want %q", apps.statuses[appID], tt.status)
			}
			if profiles.roles[userID] != tt.wantRole {
				t.Errorf("role = %q, want %q", profiles.roles[userID], tt.wantRole)
			}
		})
	}

	svc := NewApplicationService(logger.Nop(), &fakeApps{}, &fakeProfiles{}, &fakeUploader{})
	if err := svc.Decide(context.Background(), appID, models.ApplicationPending); !app_errors.IsValidation(err) {
		t.Errorf("Decide(pending) = %v, want validation error", err)
	}
	if err := svc.Decide(context.Background(), uuid.New(), models.ApplicationApproved); !errors.Is(err, app_errors.ErrApplicationNotFound) {
		t.Errorf("Decide(unknown) = %v, want ErrApplicationNotFound", err)
	}
}
