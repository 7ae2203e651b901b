package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchRecord is a derived, re-computable relation between one job and one
// candidate profile. (job_id, candidate_id) is the idempotent upsert key:
// re-scoring a pair overwrites the scores, never duplicates the row.
type MatchRecord struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID       string `gorm:"column:job_id;type:uuid;uniqueIndex:idx_match_pair" json:"job_id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;uniqueIndex:idx_match_pair" json:"candidate_id"`

	SimilarityScore float64 `gorm:"column:similarity_score" json:"similarity_score"`
	MatchScore      int     `gorm:"column:match_score;type:integer" json:"match_score"`

	Breakdown datatypes.JSON `gorm:"column:breakdown;type:jsonb" json:"breakdown"`

	Status string `gorm:"column:status;type:text" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (MatchRecord) TableName() string { return "match_records" }

const MatchStatusMatched = "matched"
