package db

import (
	"flag"
	"os"

	"github.com/rmsilva/portfolio-backend/models"
)

// Database is what the API layer needs from a contacts store.
type Database interface {
	// Inserts a new contact record.
	PutContact(models.Contact) error
	// Retrieves a single contact by id.
	GetContact(id string) (models.Contact, error)
	// Retrieves all contacts, most recent first.
	GetContacts() ([]models.Contact, error)
	// Sets the status of a contact and returns the updated record.
	UpdateContactStatus(id string, status models.ContactStatus) (models.Contact, error)
	// Deletes a contact by id.
	RemoveContact(id string) error
	ClearTables() error
}

// Config is a configuration struct for a Database.
type Config struct {
	Port           string
	DbHost         string
	DbName         string
	DbUsername     string
	DbPass         string
	DbContactTable string
}

// Default configuration values. Can be overwritten by env vars of the same name.
var configDefaults = map[string]string{
	"PORT":             "8080",
	"DB_HOST":          "localhost",
	"DB_NAME":          "portfolio",
	"DB_USERNAME":      "postgres",
	"DB_PASSWORD":      "postgres",
	"TEST_DB_NAME":     "portfolio_test",
	"DB_CONTACT_TABLE": "contacts",
}

func getEnvOrDefault(varName string) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		envVar = configDefaults[varName]
	}
	return envVar
}

// LoadEnvironmentVariables loads relevant environment variables into a
// Config object.
func LoadEnvironmentVariables() (Config, error) {
	config := Config{
		Port:           getEnvOrDefault("PORT"),
		DbHost:         getEnvOrDefault("DB_HOST"),
		DbName:         getEnvOrDefault("DB_NAME"),
		DbUsername:     getEnvOrDefault("DB_USERNAME"),
		DbPass:         getEnvOrDefault("DB_PASSWORD"),
		DbContactTable: getEnvOrDefault("DB_CONTACT_TABLE"),
	}
	if flag.Lookup("test.v") != nil {
		// Avoid accidentally wiping the default db during tests.
		config.DbName = getEnvOrDefault("TEST_DB_NAME")
	}
	return config, nil
}
