//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxFoodTypeLen = 128
	maxNotesLen    = 2000
)

// FeedingLog records one feeding of an animal.
type FeedingLog struct {
	ID          string    `json:"id"           db:"id"`
	AnimalName  string    `json:"animal_name"  db:"animal_name"`
	FoodType    string    `json:"food_type"    db:"food_type"`
	Quantity    string    `json:"quantity"     db:"quantity"`
	Notes       string    `json:"notes"        db:"notes"`
	KeeperID    string    `json:"keeper_id"    db:"keeper_id"`
	FeedingTime time.Time `json:"feeding_time" db:"feeding_time"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// CreateFeedingLogRequest represents parameters to create a FeedingLog.
// KeeperID is stamped by the service from the caller's session, never by
// the form.
type CreateFeedingLogRequest struct {
	AnimalName  string    `json:"animal_name"`
	FoodType    string    `json:"food_type"`
	Quantity    string    `json:"quantity"`
	Notes       string    `json:"notes"`
	FeedingTime time.Time `json:"feeding_time"`
}

// FeedingLogsListOptions controls paging for listing feeding logs.
// Results are ordered by feeding_time descending.
type FeedingLogsListOptions struct {
	Limit      int
	Offset     int
	AnimalName *string // exact match
}

// Validate validates CreateFeedingLogRequest.
func (r *CreateFeedingLogRequest) Validate() error {
	if strings.TrimSpace(r.AnimalName) == "" {
		return errors.New("animal name is required and cannot be empty")
	}
	if strings.TrimSpace(r.FoodType) == "" {
		return errors.New("food type is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.FoodType) > maxFoodTypeLen {
		return errors.New("food type cannot exceed 128 characters")
	}
	if strings.TrimSpace(r.Quantity) == "" {
		return errors.New("quantity is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Notes) > maxNotesLen {
		return errors.New("notes cannot exceed 2000 characters")
	}
	return nil
}
