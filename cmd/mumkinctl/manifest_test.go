package main

import (
	"Mumkin/internal/models"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleManifest = `
title: Watercolor basics
category: art
status: draft
what_you_will_learn: |
  Mixing
  Layering
course_image: cover.png
lessons:
  - title: Paper and brushes
    duration: "10:00"
    is_free: true
    video_file: videos/intro.mp4
  - title: Washes
    video_url: https://cdn.test/washes.mp4
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func closeAll(cs []io.Closer) {
	for _, c := range cs {
		_ = c.Close()
	}
}

func TestManifestSubmission(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "course.yaml"), sampleManifest)
	writeFile(t, filepath.Join(dir, "cover.png"), "png")
	writeFile(t, filepath.Join(dir, "videos", "intro.mp4"), "video")

	m, err := LoadManifest(filepath.Join(dir, "course.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	sub, files, err := m.Submission()
	defer closeAll(files)
	if err != nil {
		t.Fatalf("Submission: %v", err)
	}

	if sub.Title != "Watercolor basics" || sub.Status != models.StatusDraft {
		t.Errorf("title/status = %q/%q", sub.Title, sub.Status)
	}
	if sub.CourseImage == nil || sub.CourseImage.Name != "cover.png" || sub.CourseImage.Size != 3 {
		t.Errorf("course image = %+v", sub.CourseImage)
	}
	if !strings.HasPrefix(sub.CourseImage.ContentType, "image/png") {
		t.Errorf("content type = %q", sub.CourseImage.ContentType)
	}
	if len(sub.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2", len(sub.Lessons))
	}
	if sub.Lessons[0].File == nil || sub.Lessons[0].File.Name != "intro.mp4" || !sub.Lessons[0].IsFree {
		t.Errorf("lesson[0] = %+v", sub.Lessons[0])
	}
	if sub.Lessons[1].File != nil || sub.Lessons[1].VideoURL != "https://cdn.test/washes.mp4" {
		t.Errorf("lesson[1] = %+v", sub.Lessons[1])
	}
	if len(files) != 2 {
		t.Errorf("opened %d files, want 2", len(files))
	}
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"unknown field", "title: x\nprice: 10\n"},
		{"missing file", "title: x\ncourse_image: nowhere.png\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "course.yaml")
			writeFile(t, path, tt.manifest)
			m, err := LoadManifest(path)
			if err != nil {
				return
			}
			_, files, err := m.Submission()
			closeAll(files)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}
