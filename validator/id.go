package validator

import (
	"errors"
	"regexp"
)

// ErrInvalidID indicates an identifier that does not match the stored
// record id format. Malformed identifiers are rejected here so they
// never reach the storage query layer.
var ErrInvalidID = errors.New("malformed contact id")

// idPattern matches the generated record ids: 25 characters, a leading
// "c" followed by 24 base-36 characters.
var idPattern = regexp.MustCompile(`^c[a-z0-9]{24}$`)

// ContactID reports whether id is a well-formed record identifier.
func ContactID(id string) error {
	if !idPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}
