package service

import (
	"Mumkin/internal/service/application"
	"Mumkin/internal/service/auth"
	"Mumkin/internal/service/course"
	"Mumkin/internal/service/instructor"
	"Mumkin/internal/service/notification"
	"Mumkin/internal/session"
)

type Collection struct {
	*auth.AuthService
	*course.CourseService
	*application.ApplicationService
	*instructor.InstructorService
	*notification.NotificationService
	*session.Resolver
}
