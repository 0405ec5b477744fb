package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/repos"
	"github.com/devlingo/devlingo-backend/internal/types"
)

func newCourseService(t *testing.T, db *gorm.DB) CourseService {
	t.Helper()
	log := newTestLogger(t)
	return NewCourseService(
		db,
		log,
		repos.NewCourseRepo(db, log),
		repos.NewUserProgressRepo(db, log),
		repos.NewChallengeProgressRepo(db, log),
	)
}

func TestGetUserCoursesAnnotatesProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(t, db)
	ctx := context.Background()

	courseID := seedCourse(t, db)
	ids := challengeIDs(t, db)

	progress := newProgressService(t, db)
	if _, err := progress.SelectActiveCourse(ctx, "user-1", courseID, Profile{Name: "Ada"}); err != nil {
		t.Fatalf("SelectActiveCourse: %v", err)
	}
	progress.roll = func() float64 { return 0.99 }
	if _, err := progress.SubmitAnswer(ctx, "user-1", ids[0], true); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	out, err := svc.GetUserCourses(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserCourses: %v", err)
	}
	if out.ActiveCourseID == nil || *out.ActiveCourseID != courseID {
		t.Fatalf("active course: got %v", out.ActiveCourseID)
	}
	if len(out.Courses) != 1 {
		t.Fatalf("courses: want=1 got=%d", len(out.Courses))
	}
	if out.Courses[0].Progress != 25 {
		t.Fatalf("progress: want=25 got=%d", out.Courses[0].Progress)
	}
}

func TestGetUserCoursesHidesForeignCustomCourses(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(t, db)
	ctx := context.Background()

	other := "maker-2"
	courses := []types.Course{
		{Title: "Global Go", ImageSrc: "/go.svg", Type: types.CourseTypeGlobal},
		{Title: "Private Rust", ImageSrc: "/rust.svg", Type: types.CourseTypeCustom, MakerID: &other},
	}
	for i := range courses {
		if err := db.Create(&courses[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	out, err := svc.GetUserCourses(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserCourses: %v", err)
	}
	if len(out.Courses) != 1 || out.Courses[0].Title != "Global Go" {
		t.Fatalf("visible courses: got %+v", out.Courses)
	}
	if out.ActiveCourseID != nil {
		t.Fatalf("active course for fresh user: got %v", out.ActiveCourseID)
	}
}
