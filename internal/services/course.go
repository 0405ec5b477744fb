package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/mastery"
	"github.com/devlingo/devlingo-backend/internal/repos"
	"github.com/devlingo/devlingo-backend/internal/types"
)

// CourseSummary is a catalog row annotated with the caller's completion
// percentage across the whole course tree.
type CourseSummary struct {
	ID       int              `json:"id"`
	Title    string           `json:"title"`
	ImageSrc string           `json:"image_src"`
	Type     types.CourseType `json:"type"`
	Progress int              `json:"progress"`
}

type UserCourses struct {
	ActiveCourseID *int            `json:"active_course_id,omitempty"`
	Courses        []CourseSummary `json:"courses"`
}

type CourseService interface {
	GetUserCourses(ctx context.Context, userID string) (*UserCourses, error)
}

type courseService struct {
	db                *gorm.DB
	log               *logger.Logger
	courses           repos.CourseRepo
	userProgress      repos.UserProgressRepo
	challengeProgress repos.ChallengeProgressRepo
}

func NewCourseService(db *gorm.DB, baseLog *logger.Logger, courseRepo repos.CourseRepo, userProgressRepo repos.UserProgressRepo, challengeProgressRepo repos.ChallengeProgressRepo) CourseService {
	return &courseService{
		db:                db,
		log:               baseLog.With("service", "CourseService"),
		courses:           courseRepo,
		userProgress:      userProgressRepo,
		challengeProgress: challengeProgressRepo,
	}
}

// GetUserCourses lists every course visible to the caller (GLOBAL plus their
// own CUSTOM ones), each with its completion percentage, alongside the id of
// the active course if one is selected.
func (s *courseService) GetUserCourses(ctx context.Context, userID string) (*UserCourses, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	courses, err := s.courses.ListVisibleTo(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	rows, err := s.challengeProgress.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load challenge progress: %w", err)
	}
	byChallenge := mastery.GroupProgressByChallenge(rows)

	out := &UserCourses{Courses: make([]CourseSummary, 0, len(courses))}
	for _, course := range courses {
		if course == nil {
			continue
		}
		out.Courses = append(out.Courses, CourseSummary{
			ID:       course.ID,
			Title:    course.Title,
			ImageSrc: course.ImageSrc,
			Type:     course.Type,
			Progress: mastery.CourseProgressPercentage(course.Units, byChallenge),
		})
	}

	progress, err := s.userProgress.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	if progress != nil {
		out.ActiveCourseID = progress.ActiveCourseID
	}
	return out, nil
}
