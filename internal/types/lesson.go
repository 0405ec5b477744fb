package types

type Lesson struct {
	ID         int          `gorm:"primaryKey" json:"id"`
	Title      string       `gorm:"column:title;not null" json:"title"`
	UnitID     int          `gorm:"column:unit_id;not null;index" json:"unit_id"`
	Order      int          `gorm:"column:order;not null" json:"order"`
	Challenges []*Challenge `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"challenges,omitempty"`
}

func (Lesson) TableName() string { return "lessons" }
