package db

import (
	"sort"
	"sync"

	"github.com/rmsilva/portfolio-backend/models"
)

// MemDatabase is a straw-man in-memory database (for testing!)
type MemDatabase struct {
	mu       sync.Mutex
	contacts map[string]models.Contact
}

// InitMemDatabase returns an empty in-memory Database.
func InitMemDatabase() *MemDatabase {
	return &MemDatabase{
		contacts: make(map[string]models.Contact),
	}
}

func (db *MemDatabase) PutContact(contact models.Contact) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.contacts[contact.ID] = contact
	return nil
}

func (db *MemDatabase) GetContact(id string) (models.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	contact, ok := db.contacts[id]
	if !ok {
		return models.Contact{}, models.ErrNotFound
	}
	return contact, nil
}

func (db *MemDatabase) GetContacts() ([]models.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	contacts := []models.Contact{}
	for _, contact := range db.contacts {
		contacts = append(contacts, contact)
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})
	return contacts, nil
}

func (db *MemDatabase) UpdateContactStatus(id string, status models.ContactStatus) (models.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	contact, ok := db.contacts[id]
	if !ok {
		return models.Contact{}, models.ErrNotFound
	}
	contact.Status = status
	db.contacts[id] = contact
	return contact, nil
}

func (db *MemDatabase) RemoveContact(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.contacts[id]; !ok {
		return models.ErrNotFound
	}
	delete(db.contacts, id)
	return nil
}

func (db *MemDatabase) ClearTables() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.contacts = make(map[string]models.Contact)
	return nil
}
