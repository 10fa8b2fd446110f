package models

import "io"

const (
	BucketCourseImages     = "course-images"
	BucketInstructorImages = "instructor-images"
	BucketCourseVideos     = "course-videos"
	BucketLessonVideos     = "lesson-videos"
	BucketCVs              = "cvs"
	BucketInterviewVideos  = "interview-videos"
)

// Upload is a binary waiting to be stored. Size may be -1 when unknown.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}
