package models

import "time"

// UnlockGrant gives an employer full visibility on one candidate profile.
// (employer_id, candidate_id) is unique: a second unlock of the same pair is
// a no-op and must not debit again.
type UnlockGrant struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployerID  string `gorm:"column:employer_id;type:uuid;uniqueIndex:idx_unlock_pair" json:"employer_id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;uniqueIndex:idx_unlock_pair" json:"candidate_id"`

	AmountCredits int64 `gorm:"column:amount_credits;type:bigint" json:"amount_credits"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (UnlockGrant) TableName() string { return "unlock_grants" }
