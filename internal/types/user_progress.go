package types

import "time"

const (
	// DefaultHearts is the balance a fresh learner starts with.
	DefaultHearts = 5

	// HeartsCapPractice is the ceiling applied to the unconditional practice
	// reward.
	HeartsCapPractice = 5

	// HeartsCapFirstAttempt is the higher ceiling applied to the probabilistic
	// first-attempt reward.
	HeartsCapFirstAttempt = 8

	// PointsPerChallenge is awarded for every completed challenge, first
	// attempt or practice.
	PointsPerChallenge = 10
)

// UserProgress is the single mutable aggregate per learner. UserID is the
// opaque subject from the identity provider.
type UserProgress struct {
	UserID         string  `gorm:"column:user_id;primaryKey" json:"user_id"`
	UserName       string  `gorm:"column:user_name;not null;default:'User'" json:"user_name"`
	UserImageSrc   string  `gorm:"column:user_image_src;not null;default:'/mascot.svg'" json:"user_image_src"`
	ActiveCourseID *int    `gorm:"column:active_course_id" json:"active_course_id,omitempty"`
	ActiveCourse   *Course `gorm:"foreignKey:ActiveCourseID;references:ID" json:"active_course,omitempty"`
	Hearts         int     `gorm:"column:hearts;not null;default:5" json:"hearts"`
	Points         int     `gorm:"column:points;not null;default:0" json:"points"`
	Coins          int     `gorm:"column:coins;not null;default:0" json:"coins"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }
