package types

type Unit struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
	CourseID    int       `gorm:"column:course_id;not null;index" json:"course_id"`
	Order       int       `gorm:"column:order;not null" json:"order"`
	Lessons     []*Lesson `gorm:"constraint:OnDelete:CASCADE;foreignKey:UnitID;references:ID" json:"lessons,omitempty"`
}

func (Unit) TableName() string { return "units" }
