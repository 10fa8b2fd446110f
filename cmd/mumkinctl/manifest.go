package main

import (
	"Mumkin/internal/models"
	"Mumkin/internal/service/course/authoring"
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes a course submission on disk. File paths are relative
// to the manifest.
type Manifest struct {
	Title            string              `yaml:"title"`
	Category         string              `yaml:"category"`
	Duration         string              `yaml:"duration"`
	Level            string              `yaml:"level"`
	Description      string              `yaml:"description"`
	WhatYouWillLearn string              `yaml:"what_you_will_learn"`
	HasCertificate   bool                `yaml:"has_certificate"`
	InstructorName   string              `yaml:"instructor_name"`
	Status           models.CourseStatus `yaml:"status"`
	CourseImage      string              `yaml:"course_image"`
	InstructorImage  string              `yaml:"instructor_image"`
	PromoVideo       string              `yaml:"promo_video"`
	Lessons          []ManifestLesson    `yaml:"lessons"`

	dir string
}

type ManifestLesson struct {
	Title     string `yaml:"title"`
	Duration  string `yaml:"duration"`
	IsFree    bool   `yaml:"is_free"`
	VideoURL  string `yaml:"video_url"`
	VideoFile string `yaml:"video_file"`
}

func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

// Submission opens every referenced file. The caller closes the returned
// files once the submission is done, also on error.
func (m *Manifest) Submission() (authoring.Submission, []io.Closer, error) {
	var opened []io.Closer
	open := func(rel string) (*models.Upload, error) {
		if rel == "" {
			return nil, nil
		}
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, rel)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return &models.Upload{
			Name:        filepath.Base(path),
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
			Body:        f,
		}, nil
	}

	sub := authoring.Submission{
		Title:            m.Title,
		Category:         m.Category,
		Duration:         m.Duration,
		Level:            m.Level,
		Description:      m.Description,
		WhatYouWillLearn: m.WhatYouWillLearn,
		HasCertificate:   m.HasCertificate,
		InstructorName:   m.InstructorName,
		Status:           m.Status,
	}
	var err error
	if sub.CourseImage, err = open(m.CourseImage); err != nil {
		return sub, opened, err
	}
	if sub.InstructorImage, err = open(m.InstructorImage); err != nil {
		return sub, opened, err
	}
	if sub.PromoVideo, err = open(m.PromoVideo); err != nil {
		return sub, opened, err
	}
	for _, l := range m.Lessons {
		row := authoring.LessonForm{Title: l.Title, Duration: l.Duration, IsFree: l.IsFree, VideoURL: l.VideoURL}
		if row.File, err = open(l.VideoFile); err != nil {
			return sub, opened, err
		}
		sub.Lessons = append(sub.Lessons, row)
	}
	return sub, opened, nil
}
