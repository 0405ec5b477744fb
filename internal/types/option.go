package types

type QuizOption struct {
	ID          int     `gorm:"primaryKey" json:"id"`
	ChallengeID int     `gorm:"column:challenge_id;not null;index" json:"challenge_id"`
	Text        string  `gorm:"column:text;not null" json:"text"`
	Correct     bool    `gorm:"column:correct;not null" json:"correct"`
	Order       int     `gorm:"column:order;not null;default:0" json:"order"`
	ImageSrc    *string `gorm:"column:image_src" json:"image_src,omitempty"`
	AudioSrc    *string `gorm:"column:audio_src" json:"audio_src,omitempty"`
}

func (QuizOption) TableName() string { return "quiz_options" }

type WordOption struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	ChallengeID int    `gorm:"column:challenge_id;not null;index" json:"challenge_id"`
	Word        string `gorm:"column:word;not null" json:"word"`
	Order       int    `gorm:"column:order;not null" json:"order"`
	Correct     bool   `gorm:"column:correct;not null;default:false" json:"correct"`
}

func (WordOption) TableName() string { return "word_options" }
