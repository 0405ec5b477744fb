package types

import (
	"gorm.io/datatypes"
)

// ChallengeType is a closed set. The aggregation and economy code is
// type-agnostic: it only ever reads ID, LessonID and Order. Payload columns
// belong to the rendering collaborator and stay opaque here.
type ChallengeType string

const (
	ChallengeTypeSelect   ChallengeType = "SELECT"
	ChallengeTypeAssist   ChallengeType = "ASSIST"
	ChallengeTypeCode     ChallengeType = "CODE"
	ChallengeTypeVideo    ChallengeType = "VIDEO"
	ChallengeTypeText     ChallengeType = "TEXT"
	ChallengeTypeImage    ChallengeType = "IMAGE"
	ChallengeTypePDF      ChallengeType = "PDF"
	ChallengeTypeComplete ChallengeType = "COMPLETE"
	ChallengeTypeWrite    ChallengeType = "WRITE"
	ChallengeTypeProject  ChallengeType = "PROJECT"
)

func (t ChallengeType) Valid() bool {
	switch t {
	case ChallengeTypeSelect, ChallengeTypeAssist, ChallengeTypeCode,
		ChallengeTypeVideo, ChallengeTypeText, ChallengeTypeImage,
		ChallengeTypePDF, ChallengeTypeComplete, ChallengeTypeWrite,
		ChallengeTypeProject:
		return true
	}
	return false
}

type Challenge struct {
	ID       int           `gorm:"primaryKey" json:"id"`
	LessonID int           `gorm:"column:lesson_id;not null;index" json:"lesson_id"`
	Type     ChallengeType `gorm:"column:type;not null" json:"type"`
	Label    string        `gorm:"column:label;not null" json:"label"`
	Order    int           `gorm:"column:order;not null" json:"order"`

	Explanation *string `gorm:"column:explanation" json:"explanation,omitempty"`

	// Media payloads.
	TextContent  *string `gorm:"column:text_content" json:"text_content,omitempty"`
	ImageContent *string `gorm:"column:image_content" json:"image_content,omitempty"`
	VideoURL     *string `gorm:"column:video_url" json:"video_url,omitempty"`
	PDFURL       *string `gorm:"column:pdf_url" json:"pdf_url,omitempty"`

	// Code payload. Test cases are judged by an external service; this engine
	// only stores them.
	InitialCode  *string        `gorm:"column:initial_code" json:"initial_code,omitempty"`
	Language     *string        `gorm:"column:language" json:"language,omitempty"`
	Instructions *string        `gorm:"column:instructions" json:"instructions,omitempty"`
	TestCases    datatypes.JSON `gorm:"column:test_cases" json:"test_cases,omitempty"`
	TimeLimit    *int           `gorm:"column:time_limit" json:"time_limit,omitempty"`
	MemoryLimit  *int           `gorm:"column:memory_limit" json:"memory_limit,omitempty"`

	// Fill-in-the-blank payload.
	CompleteQuestion *string `gorm:"column:complete_question" json:"complete_question,omitempty"`

	// Project payload.
	ProjectStructure *string        `gorm:"column:project_structure" json:"project_structure,omitempty"`
	ProjectFiles     datatypes.JSON `gorm:"column:project_files" json:"project_files,omitempty"`
	ProjectTestCases datatypes.JSON `gorm:"column:project_test_cases" json:"project_test_cases,omitempty"`
	TestSetup        datatypes.JSON `gorm:"column:test_setup" json:"test_setup,omitempty"`
	TestTeardown     datatypes.JSON `gorm:"column:test_teardown" json:"test_teardown,omitempty"`

	QuizOptions []*QuizOption        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"quiz_options,omitempty"`
	WordOptions []*WordOption        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"word_options,omitempty"`
	Progress    []*ChallengeProgress `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"progress,omitempty"`
}

func (Challenge) TableName() string { return "challenges" }
