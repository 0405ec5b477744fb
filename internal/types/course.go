package types

// CourseType controls catalog visibility: GLOBAL courses are visible to every
// learner, CUSTOM courses only to the maker that authored them.
type CourseType string

const (
	CourseTypeGlobal CourseType = "GLOBAL"
	CourseTypeCustom CourseType = "CUSTOM"
)

type Course struct {
	ID       int        `gorm:"primaryKey" json:"id"`
	Title    string     `gorm:"column:title;not null" json:"title"`
	ImageSrc string     `gorm:"column:image_src;not null" json:"image_src"`
	Type     CourseType `gorm:"column:type;not null;default:'GLOBAL'" json:"type"`
	MakerID  *string    `gorm:"column:maker_id;index" json:"maker_id,omitempty"`
	Units    []*Unit    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"units,omitempty"`
}

func (Course) TableName() string { return "courses" }
