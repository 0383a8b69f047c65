package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

type CourseProgress struct {
	CompletedLessonIDs   []string  `json:"completedLessons"`
	CompletedExerciseIDs []string  `json:"completedExercises"`
	LastAccessedAt       time.Time `json:"lastAccessed"`
	Score                int       `json:"score"`
}

type User struct {
	ID                string                    `json:"id"`
	Email             string                    `json:"email"`
	DisplayName       string                    `json:"name"`
	Role              Role                      `json:"role"`
	CreatedAt         time.Time                 `json:"createdAt"`
	EnrolledCourseIDs []string                  `json:"enrolledCourses"`
	Progress          map[string]CourseProgress `json:"progress"`
}

// UserPatch carries the caller-editable fields. Role is deliberately absent.
type UserPatch struct {
	DisplayName       *string                   `json:"display_name,omitempty"`
	EnrolledCourseIDs []string                  `json:"enrolled_course_ids,omitempty"`
	Progress          map[string]CourseProgress `json:"progress,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsEnrolled(courseID string) bool {
	if u == nil {
		return false
	}
	for _, id := range u.EnrolledCourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices or maps with the owner.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.EnrolledCourseIDs = append([]string(nil), u.EnrolledCourseIDs...)
	if u.EnrolledCourseIDs == nil {
		out.EnrolledCourseIDs = []string{}
	}
	out.Progress = make(map[string]CourseProgress, len(u.Progress))
	for k, p := range u.Progress {
		p.CompletedLessonIDs = append([]string(nil), p.CompletedLessonIDs...)
		p.CompletedExerciseIDs = append([]string(nil), p.CompletedExerciseIDs...)
		out.Progress[k] = p
	}
	return &out
}

// LocalPart returns the part of an email address before '@'.
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// MergeSet appends the ids of add missing from base, keeping base order.
func MergeSet(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
