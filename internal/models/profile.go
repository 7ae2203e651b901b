package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type ProfileKind string

const (
	KindCandidate ProfileKind = "candidate"
	KindJob       ProfileKind = "job"
)

type ProcessingStatus string

const (
	StatusUploaded   ProcessingStatus = "uploaded"
	StatusProcessing ProcessingStatus = "processing"
	StatusProcessed  ProcessingStatus = "processed"
	StatusError      ProcessingStatus = "error"
)

// Profile is the symmetric record for both candidate CVs and job postings.
// The embedding column is populated only once Status reaches "processed".
type Profile struct {
	ID      string      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Kind    ProfileKind `gorm:"column:kind;type:text;index" json:"kind"`
	OwnerID *string     `gorm:"column:owner_id;type:uuid;index" json:"owner_id,omitempty"`

	Title string `gorm:"column:title;type:text" json:"title"`
	Name  string `gorm:"column:name;type:text" json:"name"`
	Email string `gorm:"column:email;type:text" json:"email"`
	Phone string `gorm:"column:phone;type:text" json:"phone"`

	RawText string `gorm:"column:raw_text;type:text" json:"raw_text"`

	// Job-posting intake fields. RawText is composed from these, so edits can
	// rebuild it without losing the folded requirement lines.
	Description        string         `gorm:"column:description;type:text" json:"description,omitempty"`
	RequiredSkills     pq.StringArray `gorm:"column:required_skills;type:text[]" json:"required_skills,omitempty"`
	RequiredExperience int            `gorm:"column:required_experience;type:integer" json:"required_experience,omitempty"`

	Skills          pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	ExperienceYears int            `gorm:"column:experience_years;type:integer" json:"experience_years"`
	Education       pq.StringArray `gorm:"column:education;type:text[]" json:"education"`
	EducationTier   string         `gorm:"column:education_tier;type:text" json:"education_tier"`
	Certifications  pq.StringArray `gorm:"column:certifications;type:text[]" json:"certifications"`

	Embedding pgvector.Vector `gorm:"column:embedding;type:vector(1536)" json:"-"`

	Status       ProcessingStatus `gorm:"column:status;type:text;index" json:"status"`
	ProcessError string           `gorm:"column:process_error;type:text" json:"process_error,omitempty"`

	Public      bool  `gorm:"column:public" json:"public"`
	UnlockPrice int64 `gorm:"column:unlock_price;type:bigint" json:"unlock_price"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
