//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxAnimalNameLen    = 255
	maxSpeciesLen       = 255
	maxEnclosureLen     = 128
	maxHealthStatusLen  = 128
	maxAnimalAgeYears   = 300
	defaultAnimalsLimit = 50
)

// Animal represents one animal record in the collection.
type Animal struct {
	ID           string    `json:"id"            db:"id"`
	Name         string    `json:"name"          db:"name"`
	Species      string    `json:"species"       db:"species"`
	Age          int       `json:"age"           db:"age"`
	Enclosure    string    `json:"enclosure"     db:"enclosure"`
	HealthStatus string    `json:"health_status" db:"health_status"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"    db:"updated_at"`
}

// CreateAnimalRequest represents parameters to create an Animal.
type CreateAnimalRequest struct {
	Name         string `json:"name"`
	Species      string `json:"species"`
	Age          int    `json:"age"`
	Enclosure    string `json:"enclosure"`
	HealthStatus string `json:"health_status"`
}

// UpdateAnimalRequest represents parameters to update an Animal.
type UpdateAnimalRequest struct {
	Name         *string `json:"name,omitempty"`
	Species      *string `json:"species,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Enclosure    *string `json:"enclosure,omitempty"`
	HealthStatus *string `json:"health_status,omitempty"`
}

// AnimalsListOptions controls paging and filtering for listing animals.
// Q matches name or species via ILIKE substring.
type AnimalsListOptions struct {
	Limit  int
	Offset int
	Q      *string
	Sort   string // allowed: "created_at", "name"
	Dir    string // allowed: "asc", "desc"
}

// Validate validates CreateAnimalRequest.
func (r *CreateAnimalRequest) Validate() error {
	if err := validateAnimalFields(r.Name, r.Species, r.Enclosure, r.HealthStatus); err != nil {
		return err
	}
	if r.Age < 0 {
		return errors.New("age must be non-negative")
	}
	if r.Age > maxAnimalAgeYears {
		return errors.New("age must be between 0 and 300")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateAnimalRequest.
func (r *UpdateAnimalRequest) HasUpdates() bool {
	return r.Name != nil || r.Species != nil || r.Age != nil || r.Enclosure != nil || r.HealthStatus != nil
}

// Validate validates UpdateAnimalRequest.
func (r *UpdateAnimalRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if r.Species != nil && strings.TrimSpace(*r.Species) == "" {
		return errors.New("species is required and cannot be empty")
	}
	if r.Age != nil && (*r.Age < 0 || *r.Age > maxAnimalAgeYears) {
		return errors.New("age must be between 0 and 300")
	}
	if r.Enclosure != nil && strings.TrimSpace(*r.Enclosure) == "" {
		return errors.New("enclosure cannot be empty")
	}
	if r.HealthStatus != nil && strings.TrimSpace(*r.HealthStatus) == "" {
		return errors.New("health status cannot be empty")
	}
	return nil
}

func validateAnimalFields(name, species, enclosure, healthStatus string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxAnimalNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if strings.TrimSpace(species) == "" {
		return errors.New("species is required and cannot be empty")
	}
	if utf8.RuneCountInString(species) > maxSpeciesLen {
		return errors.New("species cannot exceed 255 characters")
	}
	if strings.TrimSpace(enclosure) == "" {
		return errors.New("enclosure is required and cannot be empty")
	}
	if utf8.RuneCountInString(enclosure) > maxEnclosureLen {
		return errors.New("enclosure cannot exceed 128 characters")
	}
	if strings.TrimSpace(healthStatus) == "" {
		return errors.New("health status is required and cannot be empty")
	}
	if utf8.RuneCountInString(healthStatus) > maxHealthStatusLen {
		return errors.New("health status cannot exceed 128 characters")
	}
	return nil
}
