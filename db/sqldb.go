package db

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"

	// Imports postgresql driver for database/sql
	_ "github.com/lib/pq"

	"github.com/rmsilva/portfolio-backend/models"
)

// SQLDatabase is a Database interface backed by postgresql.
type SQLDatabase struct {
	cfg  Config  // Configuration to define the DB connection.
	conn *sql.DB // The database connection.
}

func getConnectionString(cfg Config) string {
	connectionString := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		url.PathEscape(cfg.DbUsername),
		url.PathEscape(cfg.DbPass),
		url.PathEscape(cfg.DbHost),
		url.PathEscape(cfg.DbName))
	return connectionString
}

// InitSQLDatabase creates a DB connection based on information in a Config, and
// returns a pointer to the resulting SQLDatabase object. If connection fails,
// returns an error.
func InitSQLDatabase(cfg Config) (*SQLDatabase, error) {
	connectionString := getConnectionString(cfg)
	log.Printf("Connecting to Postgres DB ... \n")
	conn, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	return &SQLDatabase{cfg: cfg, conn: conn}, nil
}

// PutContact inserts a new contact record into the database.
func (db *SQLDatabase) PutContact(contact models.Contact) error {
	_, err := db.conn.Exec("INSERT INTO contacts(id, name, email, subject, message, status, created_at) "+
		"VALUES($1, $2, $3, $4, $5, $6, $7)",
		contact.ID, contact.Name, contact.Email, contact.Subject,
		contact.Message, contact.Status, contact.CreatedAt)
	return err
}

func scanContact(row *sql.Row) (models.Contact, error) {
	var contact models.Contact
	err := row.Scan(&contact.ID, &contact.Name, &contact.Email,
		&contact.Subject, &contact.Message, &contact.Status, &contact.CreatedAt)
	if err == sql.ErrNoRows {
		return contact, models.ErrNotFound
	}
	return contact, err
}

// GetContact retrieves the contact record with the given id.
func (db SQLDatabase) GetContact(id string) (models.Contact, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, email, subject, message, status, created_at FROM contacts WHERE id=$1", id)
	return scanContact(row)
}

// GetContacts retrieves every contact record, most recent first.
func (db SQLDatabase) GetContacts() ([]models.Contact, error) {
	rows, err := db.conn.Query(
		"SELECT id, name, email, subject, message, status, created_at FROM contacts ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	contacts := []models.Contact{}
	for rows.Next() {
		var contact models.Contact
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Email,
			&contact.Subject, &contact.Message, &contact.Status, &contact.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// UpdateContactStatus sets the status of the contact with the given id
// and returns the updated record.
func (db *SQLDatabase) UpdateContactStatus(id string, status models.ContactStatus) (models.Contact, error) {
	row := db.conn.QueryRow("UPDATE contacts SET status=$1 WHERE id=$2 "+
		"RETURNING id, name, email, subject, message, status, created_at", status, id)
	return scanContact(row)
}

// RemoveContact deletes the contact with the given id.
func (db *SQLDatabase) RemoveContact(id string) error {
	result, err := db.conn.Exec("DELETE FROM contacts WHERE id=$1", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ClearTables nukes all the tables. ** Should only be used during testing **
func (db SQLDatabase) ClearTables() error {
	_, err := db.conn.Exec(fmt.Sprintf("DELETE FROM %s", db.cfg.DbContactTable))
	return err
}

// GetName retrieves a readable name for this data store (for use in error messages)
func (db SQLDatabase) GetName() string {
	return "SQL Database"
}
