// Seed loads a YAML course catalog into the database. Dev tooling only; the
// engine itself treats the content tree as read-only.
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devlingo/devlingo-backend/internal/db"
	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/types"
)

type catalogFile struct {
	Courses []courseSpec `yaml:"courses"`
}

type courseSpec struct {
	Title    string     `yaml:"title"`
	ImageSrc string     `yaml:"image_src"`
	Type     string     `yaml:"type"`
	MakerID  string     `yaml:"maker_id"`
	Units    []unitSpec `yaml:"units"`
}

type unitSpec struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Order       int          `yaml:"order"`
	Lessons     []lessonSpec `yaml:"lessons"`
}

type lessonSpec struct {
	Title      string          `yaml:"title"`
	Order      int             `yaml:"order"`
	Challenges []challengeSpec `yaml:"challenges"`
}

type challengeSpec struct {
	Type        string           `yaml:"type"`
	Label       string           `yaml:"label"`
	Order       int              `yaml:"order"`
	Explanation string           `yaml:"explanation"`
	QuizOptions []quizOptionSpec `yaml:"quiz_options"`
	WordOptions []wordOptionSpec `yaml:"word_options"`
}

type quizOptionSpec struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
	Order   int    `yaml:"order"`
}

type wordOptionSpec struct {
	Word    string `yaml:"word"`
	Correct bool   `yaml:"correct"`
	Order   int    `yaml:"order"`
}

func main() {
	path := flag.String("catalog", "catalog.yaml", "path to the YAML course catalog")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read catalog", "path", *path, "error", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		log.Fatal("Failed to parse catalog", "path", *path, "error", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Failed to init postgres", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres automigrate failed", "error", err)
	}
	theDB := pg.DB()

	for _, spec := range catalog.Courses {
		course := buildCourse(spec)
		if err := theDB.Create(course).Error; err != nil {
			log.Fatal("Failed to insert course", "title", spec.Title, "error", err)
		}
		log.Info("Seeded course", "title", course.Title, "units", len(course.Units))
	}
}

func buildCourse(spec courseSpec) *types.Course {
	course := &types.Course{
		Title:    spec.Title,
		ImageSrc: spec.ImageSrc,
		Type:     types.CourseType(spec.Type),
	}
	if course.Type == "" {
		course.Type = types.CourseTypeGlobal
	}
	if spec.MakerID != "" {
		makerID := spec.MakerID
		course.MakerID = &makerID
	}

	for _, u := range spec.Units {
		unit := &types.Unit{
			Title:       u.Title,
			Description: u.Description,
			Order:       u.Order,
		}
		for _, l := range u.Lessons {
			lesson := &types.Lesson{
				Title: l.Title,
				Order: l.Order,
			}
			for _, ch := range l.Challenges {
				challenge := &types.Challenge{
					Type:  types.ChallengeType(ch.Type),
					Label: ch.Label,
					Order: ch.Order,
				}
				if !challenge.Type.Valid() {
					challenge.Type = types.ChallengeTypeSelect
				}
				if ch.Explanation != "" {
					explanation := ch.Explanation
					challenge.Explanation = &explanation
				}
				for _, opt := range ch.QuizOptions {
					challenge.QuizOptions = append(challenge.QuizOptions, &types.QuizOption{
						Text:    opt.Text,
						Correct: opt.Correct,
						Order:   opt.Order,
					})
				}
				for _, opt := range ch.WordOptions {
					challenge.WordOptions = append(challenge.WordOptions, &types.WordOption{
						Word:    opt.Word,
						Correct: opt.Correct,
						Order:   opt.Order,
					})
				}
				lesson.Challenges = append(lesson.Challenges, challenge)
			}
			unit.Lessons = append(unit.Lessons, lesson)
		}
		course.Units = append(course.Units, unit)
	}
	return course
}
