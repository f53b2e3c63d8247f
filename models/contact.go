package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// ContactStatus tracks whether an admin has reviewed a message.
type ContactStatus string

// Possible values for ContactStatus.
const (
	StatusNew  ContactStatus = "new"  // Submitted, not yet reviewed.
	StatusRead ContactStatus = "read" // Marked reviewed by an admin.
)

// ValidStatus reports whether s is a recognized contact status.
func ValidStatus(s string) bool {
	return s == string(StatusNew) || s == string(StatusRead)
}

// Contact is a single contact-form message. All fields except Status
// are immutable after creation; Status changes only by admin action.
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

const (
	idLength   = 25
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// NewContactID generates a collision-resistant record identifier:
// 25 characters, a leading "c" followed by 24 random base-36
// characters, matching the format the id validator enforces.
func NewContactID() string {
	id := make([]byte, idLength)
	id[0] = 'c'
	max := big.NewInt(int64(len(idAlphabet)))
	for i := 1; i < idLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("contact id generation: %v", err))
		}
		id[i] = idAlphabet[n.Int64()]
	}
	return string(id)
}

// ErrNotFound indicates the requested contact does not exist.
var ErrNotFound = errors.New("contact not found")

// contactStore is the interface contact operations need from the
// database layer.
type contactStore interface {
	PutContact(Contact) error
	GetContact(id string) (Contact, error)
	GetContacts() ([]Contact, error)
	UpdateContactStatus(id string, status ContactStatus) (Contact, error)
	RemoveContact(id string) error
}

// Create persists c as a fresh record: a generated id, status "new" and
// the current creation time, regardless of what the caller filled in.
func (c *Contact) Create(store contactStore) error {
	c.ID = NewContactID()
	c.Status = StatusNew
	c.CreatedAt = time.Now().UTC()
	return store.PutContact(*c)
}

// MarkStatus transitions the contact's status and returns the updated
// record. The only permitted transition target values are "new" and
// "read"; callers validate the raw input before calling.
func (c Contact) MarkStatus(store contactStore, status ContactStatus) (Contact, error) {
	return store.UpdateContactStatus(c.ID, status)
}
