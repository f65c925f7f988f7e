//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxDiagnosisLen = 1000

// MedicalLog records one medical entry for an animal.
type MedicalLog struct {
	ID               string    `json:"id"                 db:"id"`
	AnimalID         string    `json:"animal_id"          db:"animal_id"`
	Date             time.Time `json:"date"               db:"date"`
	Diagnosis        string    `json:"diagnosis"          db:"diagnosis"`
	Treatment        string    `json:"treatment"          db:"treatment"`
	FollowUpRequired bool      `json:"follow_up_required" db:"follow_up_required"`
	Notes            string    `json:"notes"              db:"notes"`
	VetID            string    `json:"vet_id"             db:"vet_id"`
	CreatedAt        time.Time `json:"created_at"         db:"created_at"`
}

// CreateMedicalLogRequest represents parameters to create a MedicalLog.
// VetID is stamped by the service from the caller's session.
type CreateMedicalLogRequest struct {
	AnimalID         string    `json:"animal_id"`
	Date             time.Time `json:"date"`
	Diagnosis        string    `json:"diagnosis"`
	Treatment        string    `json:"treatment"`
	FollowUpRequired bool      `json:"follow_up_required"`
	Notes            string    `json:"notes"`
}

// MedicalLogsListOptions controls paging for listing medical logs.
// Results are ordered by date descending.
type MedicalLogsListOptions struct {
	Limit    int
	Offset   int
	AnimalID *string // exact match
}

// Validate validates CreateMedicalLogRequest.
func (r *CreateMedicalLogRequest) Validate() error {
	if strings.TrimSpace(r.AnimalID) == "" {
		return errors.New("animal_id is required and cannot be empty")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if strings.TrimSpace(r.Diagnosis) == "" {
		return errors.New("diagnosis is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Diagnosis) > maxDiagnosisLen {
		return errors.New("diagnosis cannot exceed 1000 characters")
	}
	if strings.TrimSpace(r.Treatment) == "" {
		return errors.New("treatment is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Notes) > maxNotesLen {
		return errors.New("notes cannot exceed 2000 characters")
	}
	return nil
}
