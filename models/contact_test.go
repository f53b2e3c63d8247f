package models

import (
	"regexp"
	"testing"
)

type mockContactStore struct {
	contacts map[string]Contact
}

func newMockStore() *mockContactStore {
	return &mockContactStore{contacts: make(map[string]Contact)}
}

func (m *mockContactStore) PutContact(c Contact) error {
	m.contacts[c.ID] = c
	return nil
}

func (m *mockContactStore) GetContact(id string) (Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return c, nil
}

func (m *mockContactStore) GetContacts() ([]Contact, error) {
	all := []Contact{}
	for _, c := range m.contacts {
		all = append(all, c)
	}
	return all, nil
}

func (m *mockContactStore) UpdateContactStatus(id string, status ContactStatus) (Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	c.Status = status
	m.contacts[id] = c
	return c, nil
}

func (m *mockContactStore) RemoveContact(id string) error {
	if _, ok := m.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

var idFormat = regexp.MustCompile(`^c[a-z0-9]{24}$`)

func TestNewContactIDFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewContactID()
		if !idFormat.MatchString(id) {
			t.Fatalf("generated id %q does not match expected format", id)
		}
		if seen[id] {
			t.Fatalf("generated duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestCreateSetsFreshFields(t *testing.T) {
	store := newMockStore()
	contact := Contact{
		Name:    "Ana Silva",
		Email:   "ana@x.com",
		Subject: "Hello there",
		Message: "A message of reasonable length.",
		// Caller-supplied values that must be overwritten:
		ID:     "bogus",
		Status: StatusRead,
	}
	if err := contact.Create(store); err != nil {
		t.Fatal(err)
	}
	if !idFormat.MatchString(contact.ID) {
		t.Errorf("Create kept caller id: %q", contact.ID)
	}
	if contact.Status != StatusNew {
		t.Errorf("Create status = %q, want %q", contact.Status, StatusNew)
	}
	if contact.CreatedAt.IsZero() {
		t.Error("Create left CreatedAt zero")
	}
	if _, err := store.GetContact(contact.ID); err != nil {
		t.Errorf("created contact not stored: %v", err)
	}
}

func TestMarkStatus(t *testing.T) {
	store := newMockStore()
	contact := Contact{Name: "Ana", Email: "ana@x.com"}
	if err := contact.Create(store); err != nil {
		t.Fatal(err)
	}
	updated, err := contact.MarkStatus(store, StatusRead)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != StatusRead {
		t.Errorf("status = %q, want %q", updated.Status, StatusRead)
	}
	missing := Contact{ID: "cxxxxxxxxxxxxxxxxxxxxxxxx"}
	if _, err := missing.MarkStatus(store, StatusRead); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing contact, got %v", err)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"new", "read"} {
		if !ValidStatus(s) {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []string{"", "archived", "NEW", "unread"} {
		if ValidStatus(s) {
			t.Errorf("status %q should be invalid", s)
		}
	}
}
