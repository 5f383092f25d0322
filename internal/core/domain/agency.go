package domain

import (
	"errors"
	"time"
)

var ErrAgencyNotFound = errors.New("agency not found")
var ErrAgencyCycle = errors.New("agency parent chain would form a cycle")

// MaxAgencyDepth bounds the ancestor walk when validating a parent
// assignment. A chain longer than this is treated as a cycle: it can only
// arise from concurrent writes the validator never saw.
const MaxAgencyDepth = 64

// Agency is a directory entity. Agencies form a tree through
// ParentAgencyID; root agencies have an empty parent. The parent link is a
// weak reference used for lookups only — deleting a parent never deletes
// its children.
type Agency struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	WhatsappNumber string    `json:"whatsapp_number,omitempty"`
	Address        string    `json:"address,omitempty"`
	PrimarySuburb  string    `json:"primary_suburb,omitempty"`
	AllowedSuburbs []string  `json:"allowed_suburbs,omitempty"`
	ParentAgencyID string    `json:"parent_agency_id,omitempty"`
	Logo           string    `json:"logo,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
