package types

import "time"

// ChallengeProgress records a learner's completion of one challenge. The
// (user_id, challenge_id) unique index makes duplicate submissions collapse
// into a single row; an existing row means practice mode for that challenge,
// whatever its Completed value.
type ChallengeProgress struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;not null;index:idx_user_challenge,unique" json:"user_id"`
	ChallengeID int       `gorm:"column:challenge_id;not null;index:idx_user_challenge,unique" json:"challenge_id"`
	Completed   bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (ChallengeProgress) TableName() string { return "challenge_progress" }
