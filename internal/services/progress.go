package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/mastery"
	"github.com/devlingo/devlingo-backend/internal/repos"
	"github.com/devlingo/devlingo-backend/internal/types"
	"github.com/devlingo/devlingo-backend/internal/userlock"
)

// heartRewardChance is the probability that a correct first attempt grants a
// bonus heart.
const heartRewardChance = 0.4

var (
	ErrUnauthenticated      = errors.New("missing user identity")
	ErrUserProgressNotFound = errors.New("user progress not found")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrNoActiveCourse       = errors.New("no active course selected")
)

type AttemptStatus string

const (
	AttemptStatusOK       AttemptStatus = "ok"
	AttemptStatusHearts   AttemptStatus = "hearts"
	AttemptStatusPractice AttemptStatus = "practice"
)

// AttemptResult is the discriminated outcome of a submitted answer. Hearts
// and Points reflect the post-attempt balances; for the rejected statuses
// they are the untouched current values.
type AttemptResult struct {
	Status   AttemptStatus `json:"status"`
	Practice bool          `json:"practice"`
	Hearts   int           `json:"hearts"`
	Points   int           `json:"points"`
}

// ResumePoint is the derived "where should this learner continue" view.
// CurrentLesson is nil when every lesson in the active course is mastered;
// the UI loops the learner back into practice mode in that case.
type ResumePoint struct {
	CurrentLesson    *types.Lesson `json:"current_lesson,omitempty"`
	LessonPercentage int           `json:"lesson_percentage"`
	CoursePercentage int           `json:"course_percentage"`
	CourseCompleted  bool          `json:"course_completed"`
}

// ChallengeView is a challenge annotated with the caller's completion state.
type ChallengeView struct {
	*types.Challenge
	Completed bool `json:"completed"`
}

// LessonView is the playable shape of one lesson: challenges with their
// options in display order, each marked completed for this learner.
type LessonView struct {
	ID         int             `json:"id"`
	Title      string          `json:"title"`
	Order      int             `json:"order"`
	Percentage int             `json:"percentage"`
	Challenges []ChallengeView `json:"challenges"`
}

// Profile carries the identity claims used when a progress row is created
// lazily on first course selection.
type Profile struct {
	Name     string
	ImageSrc string
}

type ProgressService interface {
	GetUserProgress(ctx context.Context, userID string) (*types.UserProgress, error)
	SelectActiveCourse(ctx context.Context, userID string, courseID int, profile Profile) (*types.UserProgress, error)
	SubmitAnswer(ctx context.Context, userID string, challengeID int, correct bool) (*AttemptResult, error)
	GetResumePoint(ctx context.Context, userID string) (*ResumePoint, error)
	GetLesson(ctx context.Context, userID string, lessonID int) (*LessonView, error)
}

type progressService struct {
	db                *gorm.DB
	log               *logger.Logger
	locks             *userlock.Registry
	userProgress      repos.UserProgressRepo
	challengeProgress repos.ChallengeProgressRepo
	courses           repos.CourseRepo
	lessons           repos.LessonRepo
	challenges        repos.ChallengeRepo
	avatars           AvatarService

	// roll is the weighted coin flip behind the first-attempt heart bonus.
	// Injectable so tests can pin both branches.
	roll func() float64
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	locks *userlock.Registry,
	userProgressRepo repos.UserProgressRepo,
	challengeProgressRepo repos.ChallengeProgressRepo,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	challengeRepo repos.ChallengeRepo,
	avatarService AvatarService,
) ProgressService {
	return &progressService{
		db:                db,
		log:               baseLog.With("service", "ProgressService"),
		locks:             locks,
		userProgress:      userProgressRepo,
		challengeProgress: challengeProgressRepo,
		courses:           courseRepo,
		lessons:           lessonRepo,
		challenges:        challengeRepo,
		avatars:           avatarService,
		roll:              rand.Float64,
	}
}

func (s *progressService) GetUserProgress(ctx context.Context, userID string) (*types.UserProgress, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	row, err := s.userProgress.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	if row == nil {
		return nil, ErrUserProgressNotFound
	}
	return row, nil
}

// SelectActiveCourse validates the course and upserts the learner's progress
// row, creating it with default balances on first selection.
func (s *progressService) SelectActiveCourse(ctx context.Context, userID string, courseID int, profile Profile) (*types.UserProgress, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	course, err := s.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	// The profile only lands on row creation; reselecting a course keeps the
	// stored one, so rendering a fresh avatar again would just orphan a file.
	if profile.ImageSrc == "" && s.avatars != nil {
		existing, pErr := s.userProgress.GetByUserID(ctx, nil, userID)
		if pErr != nil {
			return nil, fmt.Errorf("load user progress: %w", pErr)
		}
		if existing == nil {
			src, aErr := s.avatars.EnsureAvatar(ctx, userID, profile.Name)
			if aErr != nil {
				s.log.Warn("Avatar generation failed, using mascot fallback", "user_id", userID, "error", aErr)
			} else {
				profile.ImageSrc = src
			}
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var row *types.UserProgress
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		row, txErr = s.userProgress.UpsertActiveCourse(ctx, tx, userID, courseID, profile.Name, profile.ImageSrc)
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("upsert active course: %w", err)
	}
	return row, nil
}

// SubmitAnswer dispatches one attempt through the hearts/economy state
// machine. Mode is derived from progress-row existence: any existing row for
// (user, challenge) means practice. The rejected outcomes (hearts, practice)
// are confirmed before any mutation happens.
func (s *progressService) SubmitAnswer(ctx context.Context, userID string, challengeID int, correct bool) (*AttemptResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *AttemptResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.userProgress.GetByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if progress == nil {
			return ErrUserProgressNotFound
		}

		challenge, err := s.challenges.GetByID(ctx, tx, challengeID)
		if err != nil {
			return err
		}
		if challenge == nil {
			return ErrChallengeNotFound
		}

		existing, err := s.challengeProgress.GetByUserAndChallenge(ctx, tx, userID, challengeID)
		if err != nil {
			return err
		}
		practice := existing != nil

		if correct {
			result, err = s.applyCorrect(ctx, tx, progress, challengeID, practice)
		} else {
			result, err = s.applyIncorrect(ctx, tx, progress, practice)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *progressService) applyCorrect(ctx context.Context, tx *gorm.DB, progress *types.UserProgress, challengeID int, practice bool) (*AttemptResult, error) {
	// Zero hearts gates first attempts only; practice is never blocked.
	if progress.Hearts == 0 && !practice {
		return &AttemptResult{
			Status: AttemptStatusHearts,
			Hearts: progress.Hearts,
			Points: progress.Points,
		}, nil
	}

	created, err := s.challengeProgress.UpsertCompleted(ctx, tx, progress.UserID, challengeID)
	if err != nil {
		return nil, err
	}

	updated := progress
	if practice {
		// Practice reward: one heart, unconditionally, against the lower cap.
		updated, err = s.userProgress.AdjustHearts(ctx, tx, progress.UserID, 1, 0, types.HeartsCapPractice)
		if err != nil {
			return nil, err
		}
	} else if s.roll() < heartRewardChance {
		// First-attempt bonus roll uses the higher cap.
		updated, err = s.userProgress.AdjustHearts(ctx, tx, progress.UserID, 1, 0, types.HeartsCapFirstAttempt)
		if err != nil {
			return nil, err
		}
	}

	updated, err = s.userProgress.AdjustPoints(ctx, tx, progress.UserID, types.PointsPerChallenge)
	if err != nil {
		return nil, err
	}

	s.log.Debug("Recorded challenge completion",
		"user_id", progress.UserID,
		"challenge_id", challengeID,
		"practice", practice,
		"created", created,
	)
	return &AttemptResult{
		Status:   AttemptStatusOK,
		Practice: practice,
		Hearts:   updated.Hearts,
		Points:   updated.Points,
	}, nil
}

func (s *progressService) applyIncorrect(ctx context.Context, tx *gorm.DB, progress *types.UserProgress, practice bool) (*AttemptResult, error) {
	if practice {
		// Reviewing mastered material never costs hearts.
		return &AttemptResult{
			Status:   AttemptStatusPractice,
			Practice: true,
			Hearts:   progress.Hearts,
			Points:   progress.Points,
		}, nil
	}
	if progress.Hearts == 0 {
		return &AttemptResult{
			Status: AttemptStatusHearts,
			Hearts: progress.Hearts,
			Points: progress.Points,
		}, nil
	}

	// A deduction never clamps downward from above: purchased hearts can sit
	// past both reward caps, and a wrong answer costs exactly one.
	updated, err := s.userProgress.AdjustHearts(ctx, tx, progress.UserID, -1, 0, progress.Hearts)
	if err != nil {
		return nil, err
	}
	return &AttemptResult{
		Status: AttemptStatusOK,
		Hearts: updated.Hearts,
		Points: updated.Points,
	}, nil
}

// GetResumePoint loads the active course tree with this learner's progress
// rows and derives the current lesson and completion percentages.
func (s *progressService) GetResumePoint(ctx context.Context, userID string) (*ResumePoint, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	progress, err := s.userProgress.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	if progress == nil {
		return nil, ErrUserProgressNotFound
	}
	if progress.ActiveCourseID == nil {
		return nil, ErrNoActiveCourse
	}

	course, err := s.courses.GetWithTree(ctx, nil, *progress.ActiveCourseID)
	if err != nil {
		return nil, fmt.Errorf("load course tree: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	rows, err := s.challengeProgress.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load challenge progress: %w", err)
	}

	byChallenge := mastery.GroupProgressByChallenge(rows)
	current := mastery.CurrentLesson(course.Units, byChallenge)

	point := &ResumePoint{
		CurrentLesson:    current,
		CoursePercentage: mastery.CourseProgressPercentage(course.Units, byChallenge),
		CourseCompleted:  current == nil,
	}
	if current != nil {
		point.LessonPercentage = mastery.LessonPercentage(current, byChallenge)
	}
	return point, nil
}

// GetLesson loads one lesson with its challenges and options, annotating each
// challenge with the caller's completion state.
func (s *progressService) GetLesson(ctx context.Context, userID string, lessonID int) (*LessonView, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	lesson, err := s.lessons.GetWithChallenges(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	rows, err := s.challengeProgress.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load challenge progress: %w", err)
	}
	byChallenge := mastery.GroupProgressByChallenge(rows)

	view := &LessonView{
		ID:         lesson.ID,
		Title:      lesson.Title,
		Order:      lesson.Order,
		Percentage: mastery.LessonPercentage(lesson, byChallenge),
		Challenges: make([]ChallengeView, 0, len(lesson.Challenges)),
	}
	for _, challenge := range lesson.Challenges {
		if challenge == nil {
			continue
		}
		view.Challenges = append(view.Challenges, ChallengeView{
			Challenge: challenge,
			Completed: mastery.ChallengeCompleted(byChallenge[challenge.ID]),
		})
	}
	return view, nil
}
