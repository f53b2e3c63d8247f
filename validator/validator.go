// Package validator checks and sanitizes untrusted input before it
// reaches storage or business logic. Validation failures enumerate
// every violated constraint, not just the first, so API consumers can
// surface all field errors in one round trip.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// Submission holds the raw fields of a contact-form post.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// FieldError describes a single violated constraint on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every field-level violation found in a
// submission.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := []string{}
	for _, fieldErr := range e {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fieldErr.Field, fieldErr.Message))
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationErrors) add(field string, format string, a ...interface{}) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, a...)})
}

// escaper entity-escapes the characters that enable HTML injection.
var escaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// Sanitize trims surrounding whitespace and entity-escapes < > " '.
// It is applied to every accepted text field, unconditionally.
func Sanitize(input string) string {
	return escaper.Replace(strings.TrimSpace(input))
}

// namePattern permits letters (including the Latin-1 accented range),
// spaces, hyphens and apostrophes.
var namePattern = regexp.MustCompile(`^[a-záéíóúàâêãõñçA-ZÁÉÍÓÚÀÂÊÃÕÑÇ\s'-]+$`)

// emailPattern is checked after lowercasing and IDNA-normalizing the
// domain part.
var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// ContactSubmission validates a contact-form post and returns the
// sanitized field values. Length and character-set constraints are
// checked against the trimmed input; the returned values are
// entity-escaped whether or not validation succeeds elsewhere.
func ContactSubmission(input Submission) (Submission, error) {
	errs := ValidationErrors{}

	// Field lengths are bounded in characters, not bytes: accented
	// letters are first-class input here and must not count double.
	name := strings.TrimSpace(input.Name)
	if utf8.RuneCountInString(name) < 2 {
		errs.add("name", "must be at least 2 characters")
	} else if utf8.RuneCountInString(name) > 100 {
		errs.add("name", "must not exceed 100 characters")
	} else if !namePattern.MatchString(name) {
		errs.add("name", "contains invalid characters")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	email = normalizeEmailDomain(email)
	if utf8.RuneCountInString(email) > 255 {
		errs.add("email", "must not exceed 255 characters")
	} else if !emailPattern.MatchString(email) {
		errs.add("email", "is not a valid email address")
	}
	if strings.Contains(email, "script") || strings.Contains(email, "javascript") {
		errs.add("email", "contains suspicious content")
	}

	subject := strings.TrimSpace(input.Subject)
	if utf8.RuneCountInString(subject) < 5 {
		errs.add("subject", "must be at least 5 characters")
	} else if utf8.RuneCountInString(subject) > 200 {
		errs.add("subject", "must not exceed 200 characters")
	}
	if strings.ContainsAny(subject, `<>;\`) {
		errs.add("subject", "contains forbidden characters")
	}

	message := strings.TrimSpace(input.Message)
	if utf8.RuneCountInString(message) < 10 {
		errs.add("message", "must be at least 10 characters")
	} else if utf8.RuneCountInString(message) > 5000 {
		errs.add("message", "must not exceed 5000 characters")
	}
	if strings.Contains(strings.ToLower(message), "script") {
		errs.add("message", "contains suspicious content")
	}
	for _, marker := range []string{"--", "';", ";--"} {
		if strings.Contains(message, marker) {
			errs.add("message", "contains SQL injection pattern %q", marker)
			break
		}
	}

	sanitized := Submission{
		Name:    Sanitize(name),
		Email:   email,
		Subject: Sanitize(subject),
		Message: Sanitize(message),
	}
	if len(errs) > 0 {
		return sanitized, errs
	}
	return sanitized, nil
}

// normalizeEmailDomain converts an internationalized domain part to its
// ASCII form so the syntax check and storage see a canonical address.
// Addresses without exactly one @ are left for emailPattern to reject.
func normalizeEmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	ascii, err := idna.ToASCII(email[at+1:])
	if err != nil {
		return email
	}
	return email[:at+1] + ascii
}
