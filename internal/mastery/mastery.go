// Package mastery derives read-only progress views from raw completion rows.
// Everything here is a pure function over snapshots the caller already
// loaded; absence of progress is a normal state, never an error.
package mastery

import (
	"math"
	"sort"

	"github.com/devlingo/devlingo-backend/internal/types"
)

// GroupProgressByChallenge indexes progress rows by challenge id. Under the
// unique index there is one row per challenge, but the functions below
// tolerate duplicates from older data.
func GroupProgressByChallenge(rows []*types.ChallengeProgress) map[int][]*types.ChallengeProgress {
	byChallenge := make(map[int][]*types.ChallengeProgress, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		byChallenge[row.ChallengeID] = append(byChallenge[row.ChallengeID], row)
	}
	return byChallenge
}

// ChallengeCompleted reports whether a single challenge counts as done: at
// least one progress row exists and every row is completed.
func ChallengeCompleted(rows []*types.ChallengeProgress) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if row == nil || !row.Completed {
			return false
		}
	}
	return true
}

// LessonCompleted reports lesson mastery: a non-empty challenge list with
// every challenge completed. A lesson with zero challenges is never complete.
func LessonCompleted(lesson *types.Lesson, byChallenge map[int][]*types.ChallengeProgress) bool {
	if lesson == nil || len(lesson.Challenges) == 0 {
		return false
	}
	for _, challenge := range lesson.Challenges {
		if !ChallengeCompleted(byChallenge[challenge.ID]) {
			return false
		}
	}
	return true
}

// CurrentLesson returns the first incomplete lesson walking units in
// ascending order and lessons in ascending order within each unit, or nil
// when the course is finished.
func CurrentLesson(units []*types.Unit, byChallenge map[int][]*types.ChallengeProgress) *types.Lesson {
	for _, unit := range sortedUnits(units) {
		for _, lesson := range sortedLessons(unit.Lessons) {
			if !LessonCompleted(lesson, byChallenge) {
				return lesson
			}
		}
	}
	return nil
}

// LessonPercentage is round(100 * completed / total) for one lesson, 0 when
// the lesson has no challenges.
func LessonPercentage(lesson *types.Lesson, byChallenge map[int][]*types.ChallengeProgress) int {
	if lesson == nil {
		return 0
	}
	return percentage(countChallenges(lesson.Challenges, byChallenge))
}

// CourseProgressPercentage is the same ratio over every challenge in every
// lesson in every unit of the course.
func CourseProgressPercentage(units []*types.Unit, byChallenge map[int][]*types.ChallengeProgress) int {
	var done, total int
	for _, unit := range units {
		if unit == nil {
			continue
		}
		for _, lesson := range unit.Lessons {
			if lesson == nil {
				continue
			}
			d, t := countChallenges(lesson.Challenges, byChallenge)
			done += d
			total += t
		}
	}
	return percentage(done, total)
}

func countChallenges(challenges []*types.Challenge, byChallenge map[int][]*types.ChallengeProgress) (done, total int) {
	for _, challenge := range challenges {
		if challenge == nil {
			continue
		}
		total++
		if ChallengeCompleted(byChallenge[challenge.ID]) {
			done++
		}
	}
	return done, total
}

func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

func sortedUnits(units []*types.Unit) []*types.Unit {
	out := make([]*types.Unit, 0, len(units))
	for _, u := range units {
		if u != nil {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func sortedLessons(lessons []*types.Lesson) []*types.Lesson {
	out := make([]*types.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l != nil {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
