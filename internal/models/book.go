package models

import (
	"time"
)

// BookStatus is the availability of a listing. Only the two constants below
// are ever persisted.
type BookStatus string

const (
	StatusAvailable   BookStatus = "available"
	StatusUnavailable BookStatus = "unavailable"
)

func (s BookStatus) Valid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

// Book is a listing offered by an owner. JSON names match what the web
// client already consumes (_id, ownerId, createdAt).
type Book struct {
	ID        string     `json:"_id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Genre     string     `json:"genre"`
	Location  string     `json:"location"`
	OwnerID   string     `json:"ownerId"`
	Status    BookStatus `json:"status"`
	Image     string     `json:"image"`
	CreatedAt time.Time  `json:"createdAt"`
}

// BookFields are the user-editable fields replaced wholesale on update.
type BookFields struct {
	Title    string
	Author   string
	Genre    string
	Location string
	Image    string
}

// EnrichedBook is a Book decorated with its owner's contact details. Owner
// fields are omitted when the owner could not be resolved.
type EnrichedBook struct {
	Book
	OwnerName   string `json:"ownerName,omitempty"`
	OwnerEmail  string `json:"ownerEmail,omitempty"`
	OwnerMobile string `json:"ownerMobile,omitempty"`
}
