package models

import "time"

type EmployerRole string

const (
	RoleEmployer EmployerRole = "employer"
	RoleAdmin    EmployerRole = "admin"
)

type Employer struct {
	ID           string       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string       `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"column:password_hash;type:text" json:"-"`
	CompanyName  string       `gorm:"column:company_name;type:text" json:"company_name"`
	Role         EmployerRole `gorm:"column:role;type:text" json:"role"`

	// Credit balance in whole credits. Debited inside the unlock transaction.
	Credits int64 `gorm:"column:credits;type:bigint" json:"credits"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Employer) TableName() string { return "employers" }
