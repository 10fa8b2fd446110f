package listing

import (
	"Mumkin/internal/models"
	"Mumkin/pkg/observable"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func sampleCourses(n int, category string) []models.Course {
	out := make([]models.Course, n)
	for i := range out {
		out[i] = models.Course{
			ID:             uuid.New(),
			Title:          fmt.Sprintf("Course %d", i),
			Category:       category,
			InstructorName: "Sara",
		}
	}
	return out
}

func titles(courses []models.Course) []string {
	out := make([]string, len(courses))
	for i, c := range courses {
		out[i] = c.Title
	}
	return out
}

func TestMatch(t *testing.T) {
	courses := []models.Course{
		{Title: "Go Basics", Category: "it", InstructorName: "Omar"},
		{Title: "Photoshop", Category: "design", InstructorName: "Lina"},
		{Title: "Advanced Go", Category: "it", InstructorName: "Lina"},
	}

	tests := []struct {
		name     string
		category string
		term     string
		want     []string
	}{
		{"all sentinel keeps everything", CategoryAll, "", []string{"Go Basics", "Photoshop", "Advanced Go"}},
		{"category filter", "it", "", []string{"Go Basics", "Advanced Go"}},
		{"term on title ignores case", CategoryAll, "go", []string{"Go Basics", "Advanced Go"}},
		{"term on instructor", CategoryAll, "LINA", []string{"Photoshop", "Advanced Go"}},
		{"category and term", "design", "lina", []string{"Photoshop"}},
		{"no match", "it", "photo", []string{}},
		{"unmatched term with all", CategoryAll, "kotlin", []string{}},
		{"unmatched term with empty category", "", "kotlin", []string{}},
		{"unmatched term in it", "it", "kotlin", []string{}},
		{"unmatched term in design", "design", "kotlin", []string{}},
		{"unmatched term in unknown category", "music", "kotlin", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(Match(courses, tt.category, tt.term))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.category, tt.term, got, tt.want)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	courses := sampleCourses(14, "it")

	tests := []struct {
		visible     int
		wantLen     int
		wantHasMore bool
	}{
		{6, 6, true},
		{12, 12, true},
		{18, 14, false},
		{14, 14, false},
	}
	for _, tt := range tests {
		page := Window(courses, tt.visible)
		if len(page.Courses) != tt.wantLen || page.HasMore != tt.wantHasMore || page.Total != 14 {
			t.Errorf("Window(14, %d) = {len %d, more %v, total %d}, want {len %d, more %v, total 14}",
				tt.visible, len(page.Courses), page.HasMore, page.Total, tt.wantLen, tt.wantHasMore)
		}
	}
}

func TestViewPagingAndCategoryReset(t *testing.T) {
	all := append(sampleCourses(14, "it"), sampleCourses(3, "design")...)
	src := observable.New(all)
	v := NewView(src)

	if got := len(v.Page().Get().Courses); got != PageSize {
		t.Fatalf("initial page = %d courses, want %d", got, PageSize)
	}

	v.LoadMore()
	v.LoadMore()
	page := v.Page().Get()
	if len(page.Courses) != 17 || page.HasMore {
		t.Errorf("after two LoadMore: len %d more %v, want 17 false", len(page.Courses), page.HasMore)
	}

	v.SetCategory("it")
	page = v.Page().Get()
	if len(page.Courses) != PageSize || !page.HasMore || page.Total != 14 {
		t.Errorf("after SetCategory: len %d more %v total %d, want %d true 14",
			len(page.Courses), page.HasMore, page.Total, PageSize)
	}
}

func TestViewSetTermKeepsWindow(t *testing.T) {
	src := observable.New(sampleCourses(20, "it"))
	v := NewView(src)
	v.LoadMore()
	v.SetTerm("course 1")

	// "Course 1" and "Course 10".."Course 19"
	page := v.Page().Get()
	if page.Total != 11 || len(page.Courses) != 11 || page.HasMore {
		t.Errorf("page = {len %d total %d more %v}, want {11 11 false}", len(page.Courses), page.Total, page.HasMore)
	}
}

func TestViewSettlesOnLatestInputs(t *testing.T) {
	src := observable.New(sampleCourses(3, "it"))
	v := NewView(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		v.Run(ctx)
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 200; i++ {
			src.Publish(sampleCourses(i%7+1, "it"))
		}
		src.Publish(sampleCourses(4, "it"))
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			v.SetTerm(fmt.Sprintf("course %d", i%3))
		}
		v.SetTerm("")
	}()
	wg.Wait()

	deadline := time.Now().Add(time.Second)
	for {
		page := v.Page().Get()
		if page.Total == 4 && len(page.Courses) == 4 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("page = {len %d total %d}, want {4 4} from the latest source and term", len(page.Courses), page.Total)
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
}

func TestRelated(t *testing.T) {
	it := sampleCourses(5, "it")
	all := append(sampleCourses(2, "design"), it...)

	got := Related(all, it[0], 3)
	if len(got) != 3 {
		t.Fatalf("Related() returned %d courses, want 3", len(got))
	}
	for i, c := range got {
		if c.ID == it[0].ID {
			t.Errorf("Related() includes the course itself")
		}
		if c.ID != it[i+1].ID {
			t.Errorf("Related()[%d] = %s, want %s", i, c.Title, it[i+1].Title)
		}
	}
}

func TestByInstructor(t *testing.T) {
	all := sampleCourses(4, "it")
	owner := uuid.New()
	all[1].InstructorID = owner
	all[3].InstructorID = owner

	got := ByInstructor(all, owner)
	if len(got) != 2 || got[0].ID != all[1].ID || got[1].ID != all[3].ID {
		t.Errorf("ByInstructor() = %v, want courses 1 and 3", titles(got))
	}
}

func TestCategories(t *testing.T) {
	all := append(sampleCourses(2, "it"), sampleCourses(1, "design")...)
	all = append(all, models.Course{})

	got := fmt.Sprint(Categories(all))
	want := fmt.Sprint([]string{CategoryAll, "design", "it"})
	if got != want {
		t.Errorf("Categories() = %s, want %s", got, want)
	}
}
