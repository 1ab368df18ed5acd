package types

import (
	"time"

	"github.com/google/uuid"
)

// User is a managed person record. Soft-deleted rows keep their data and are
// hidden from default reads.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Address       string     `json:"address"`
	Birthday      time.Time  `json:"birthday"`
	ContactNumber string     `json:"contactNumber"`
	IsDeleted     bool       `json:"isDeleted"`
	DeletedAt     *time.Time `json:"deletedAt"`
	DeletedBy     *uuid.UUID `json:"deletedBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// RecordID implements crud.Record.
func (u User) RecordID() uuid.UUID { return u.ID }

// UserInput is the editable field set accepted by create and update.
// Update is a full replacement: every field is required on both.
type UserInput struct {
	Name          string `json:"name" validate:"required" example:"Jane Doe"`
	Email         string `json:"email" validate:"required,email" example:"jane@example.com"`
	Address       string `json:"address" validate:"required" example:"12 Main St"`
	Birthday      string `json:"birthday" validate:"required,birthday" example:"1990-05-01"`
	ContactNumber string `json:"contactNumber" validate:"required,number,min=7,max=15" example:"09171234567"`
}

var birthdayLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano}

// ParseBirthday accepts a calendar date (2006-01-02) or an RFC 3339 timestamp and
// returns the date at midnight UTC.
func ParseBirthday(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range birthdayLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
