package repos

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Course{},
		&types.Unit{},
		&types.Lesson{},
		&types.Challenge{},
		&types.QuizOption{},
		&types.WordOption{},
		&types.ChallengeProgress{},
		&types.UserProgress{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestUpsertActiveCourseCreatesWithDefaults(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewUserProgressRepo(db, log)
	ctx := context.Background()

	if err := db.Create(&types.Course{Title: "Go Basics", ImageSrc: "/go.svg"}).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	row, err := repo.UpsertActiveCourse(ctx, nil, "user-1", 1, "Ada", "/ada.png")
	if err != nil {
		t.Fatalf("UpsertActiveCourse: %v", err)
	}
	if row.Hearts != types.DefaultHearts || row.Points != 0 || row.Coins != 0 {
		t.Fatalf("defaults: got hearts=%d points=%d coins=%d", row.Hearts, row.Points, row.Coins)
	}
	if row.ActiveCourseID == nil || *row.ActiveCourseID != 1 {
		t.Fatalf("active course: got %v", row.ActiveCourseID)
	}
	if row.UserName != "Ada" || row.UserImageSrc != "/ada.png" {
		t.Fatalf("profile: got name=%q image=%q", row.UserName, row.UserImageSrc)
	}
}

func TestUpsertActiveCourseSwitchesExistingRow(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewUserProgressRepo(db, log)
	ctx := context.Background()

	if _, err := repo.UpsertActiveCourse(ctx, nil, "user-1", 1, "Ada", ""); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := repo.AdjustPoints(ctx, nil, "user-1", 50); err != nil {
		t.Fatalf("adjust points: %v", err)
	}

	row, err := repo.UpsertActiveCourse(ctx, nil, "user-1", 2, "Ignored", "/ignored.png")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if row.ActiveCourseID == nil || *row.ActiveCourseID != 2 {
		t.Fatalf("active course after switch: got %v", row.ActiveCourseID)
	}

	// Switching courses must not reset balances or overwrite the profile.
	stored, err := repo.GetByUserID(ctx, nil, "user-1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if stored.Points != 50 {
		t.Fatalf("points after switch: want=50 got=%d", stored.Points)
	}
	if stored.UserName != "Ada" {
		t.Fatalf("user name after switch: want=Ada got=%q", stored.UserName)
	}
}

func TestAdjustHeartsClamps(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewUserProgressRepo(db, log)
	ctx := context.Background()

	if _, err := repo.UpsertActiveCourse(ctx, nil, "user-1", 1, "Ada", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	row, err := repo.AdjustHearts(ctx, nil, "user-1", 10, 0, types.HeartsCapFirstAttempt)
	if err != nil {
		t.Fatalf("AdjustHearts up: %v", err)
	}
	if row.Hearts != types.HeartsCapFirstAttempt {
		t.Fatalf("hearts clamp high: want=%d got=%d", types.HeartsCapFirstAttempt, row.Hearts)
	}

	row, err = repo.AdjustHearts(ctx, nil, "user-1", -100, 0, types.HeartsCapFirstAttempt)
	if err != nil {
		t.Fatalf("AdjustHearts down: %v", err)
	}
	if row.Hearts != 0 {
		t.Fatalf("hearts clamp low: want=0 got=%d", row.Hearts)
	}
}

func TestAdjustHeartsMissingUser(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewUserProgressRepo(db, log)

	if _, err := repo.AdjustHearts(context.Background(), nil, "ghost", 1, 0, 5); err == nil {
		t.Fatalf("AdjustHearts: expected error for missing user progress")
	}
}

func TestUpsertCompletedReportsCreated(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewChallengeProgressRepo(db, log)
	ctx := context.Background()

	created, err := repo.UpsertCompleted(ctx, nil, "user-1", 7)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Fatalf("first upsert: want created=true")
	}

	created, err = repo.UpsertCompleted(ctx, nil, "user-1", 7)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatalf("second upsert: want created=false")
	}

	var count int64
	if err := db.Model(&types.ChallengeProgress{}).
		Where("user_id = ? AND challenge_id = ?", "user-1", 7).
		Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count: want=1 got=%d", count)
	}

	row, err := repo.GetByUserAndChallenge(ctx, nil, "user-1", 7)
	if err != nil {
		t.Fatalf("GetByUserAndChallenge: %v", err)
	}
	if row == nil || !row.Completed {
		t.Fatalf("row after upserts: want completed=true got %+v", row)
	}
}

func TestListByPointsDescKeepsTieOrder(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewUserProgressRepo(db, log)
	ctx := context.Background()

	seed := []types.UserProgress{
		{UserID: "a", UserName: "A", UserImageSrc: "/a.png", Hearts: 5, Points: 50},
		{UserID: "b", UserName: "B", UserImageSrc: "/b.png", Hearts: 5, Points: 200},
		{UserID: "c", UserName: "C", UserImageSrc: "/c.png", Hearts: 5, Points: 10},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, err := repo.ListByPointsDesc(ctx, nil)
	if err != nil {
		t.Fatalf("ListByPointsDesc: %v", err)
	}
	want := []string{"b", "a", "c"}
	if len(rows) != len(want) {
		t.Fatalf("rows: want=%d got=%d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].UserID != id {
			t.Fatalf("row %d: want=%s got=%s", i, id, rows[i].UserID)
		}
	}
}

func TestCourseVisibility(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewCourseRepo(db, log)
	ctx := context.Background()

	maker := "maker-1"
	courses := []types.Course{
		{Title: "Global Go", ImageSrc: "/go.svg", Type: types.CourseTypeGlobal},
		{Title: "My Course", ImageSrc: "/my.svg", Type: types.CourseTypeCustom, MakerID: &maker},
		{Title: "Someone Elses", ImageSrc: "/other.svg", Type: types.CourseTypeCustom, MakerID: ptr("maker-2")},
	}
	for i := range courses {
		if err := db.Create(&courses[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	visible, err := repo.ListVisibleTo(ctx, nil, maker)
	if err != nil {
		t.Fatalf("ListVisibleTo: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("visible courses: want=2 got=%d", len(visible))
	}
	for _, course := range visible {
		if course.Title == "Someone Elses" {
			t.Fatalf("foreign CUSTOM course leaked into listing")
		}
	}
}

func TestGetWithTreeOrdersChildren(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewCourseRepo(db, log)
	ctx := context.Background()

	course := types.Course{
		Title:    "Go Basics",
		ImageSrc: "/go.svg",
		Type:     types.CourseTypeGlobal,
		Units: []*types.Unit{
			{Title: "U2", Description: "second", Order: 2, Lessons: []*types.Lesson{
				{Title: "L3", Order: 1},
			}},
			{Title: "U1", Description: "first", Order: 1, Lessons: []*types.Lesson{
				{Title: "L2", Order: 2},
				{Title: "L1", Order: 1, Challenges: []*types.Challenge{
					{Type: types.ChallengeTypeSelect, Label: "c2", Order: 2},
					{Type: types.ChallengeTypeSelect, Label: "c1", Order: 1},
				}},
			}},
		},
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	tree, err := repo.GetWithTree(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("GetWithTree: %v", err)
	}
	if tree == nil || len(tree.Units) != 2 {
		t.Fatalf("tree shape: got %+v", tree)
	}
	if tree.Units[0].Title != "U1" || tree.Units[1].Title != "U2" {
		t.Fatalf("unit order: got [%s %s]", tree.Units[0].Title, tree.Units[1].Title)
	}
	lessons := tree.Units[0].Lessons
	if len(lessons) != 2 || lessons[0].Title != "L1" {
		t.Fatalf("lesson order: got %+v", lessons)
	}
	challenges := lessons[0].Challenges
	if len(challenges) != 2 || challenges[0].Label != "c1" {
		t.Fatalf("challenge order: got %+v", challenges)
	}
}

func ptr(s string) *string { return &s }
