package models

import (
	"time"
)

// Business statuses as stored in the registry.
const (
	StatusPending   = "pending"
	StatusVerified  = "verified"
	StatusSuspended = "suspended"
	StatusRejected  = "rejected"
)

type Business struct {
	ID                 string     `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	RegistrationNumber string     `json:"registration_number" db:"registration_number"`
	Category           *string    `json:"category" db:"category"`
	Status             string     `json:"status" db:"status"`
	Address            *string    `json:"address" db:"address"`
	City               *string    `json:"city" db:"city"`
	Region             *string    `json:"region" db:"region"`
	Phone              *string    `json:"phone" db:"phone"`
	Email              *string    `json:"email" db:"email"`
	Website            *string    `json:"website" db:"website"`
	OwnerName          *string    `json:"owner_name" db:"owner_name"`
	TaxID              *string    `json:"tax_id" db:"tax_id"`
	EmployeeCount      *int       `json:"employee_count" db:"employee_count"`
	AdminNote          *string    `json:"admin_note" db:"admin_note"`
	VerifiedBy         *int       `json:"verified_by" db:"verified_by"`
	VerifiedAt         *time.Time `json:"verified_at" db:"verified_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at" db:"updated_at"`
}

// BusinessStats contains registry-wide counts for the dashboard.
type BusinessStats struct {
	Pending   int `json:"pending"`
	Verified  int `json:"verified"`
	Suspended int `json:"suspended"`
	Rejected  int `json:"rejected"`
	Total     int `json:"total"`
}
