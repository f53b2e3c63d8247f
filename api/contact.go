package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	raven "github.com/getsentry/raven-go"

	"github.com/rmsilva/portfolio-backend/auth"
	"github.com/rmsilva/portfolio-backend/models"
	"github.com/rmsilva/portfolio-backend/validator"
)

// Per-operation rate limits for admin endpoints, keyed by operation
// name plus client IP.
const (
	listLimit    = 10
	listWindow   = time.Minute
	updateLimit  = 20
	updateWindow = time.Minute
	deleteLimit  = 10
	deleteWindow = time.Minute
)

// contactFormResult is the envelope every contact submission receives,
// success or not.
type contactFormResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	ID      string `json:"id,omitempty"`
}

// submitContact is the handler for /api/contact.
//   POST /api/contact
//        JSON body: {name, email, subject, message}
// Validates the submission, persists it with status "new", then
// notifies the admin by email. The notification is best-effort: a
// failure is logged and captured but the caller still sees success,
// because persistence is the success criterion.
func (api API) submitContact(r *http.Request) response {
	if r.Method != http.MethodPost {
		return methodNotAllowed("/api/contact", "POST")
	}
	var input validator.Submission
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return response{
			StatusCode: http.StatusBadRequest,
			Body:       contactFormResult{Success: false, Message: "Invalid request body", Error: err.Error()},
		}
	}
	sanitized, err := validator.ContactSubmission(input)
	if err != nil {
		return response{
			StatusCode: http.StatusBadRequest,
			Body:       contactFormResult{Success: false, Message: "Invalid data", Error: err.Error()},
		}
	}
	contact := models.Contact{
		Name:    sanitized.Name,
		Email:   sanitized.Email,
		Subject: sanitized.Subject,
		Message: sanitized.Message,
	}
	if err := contact.Create(api.Database); err != nil {
		return response{
			StatusCode: http.StatusInternalServerError,
			Body:       contactFormResult{Success: false, Message: "Failed to save message"},
		}
	}
	if err := api.Emailer.SendContactNotification(&contact); err != nil {
		// Message is already persisted; the notification is not
		// retried and its failure is not surfaced to the submitter.
		log.Printf("contact notification failed for %s: %v", contact.ID, err)
		raven.CaptureError(err, map[string]string{"contact": contact.ID})
	}
	return response{
		StatusCode: http.StatusOK,
		Body: contactFormResult{
			Success: true,
			Message: "Message sent successfully! You will receive a reply soon.",
			ID:      contact.ID,
		},
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResult struct {
	Token string `json:"token"`
}

// login is the handler for /api/admin/login.
//   POST /api/admin/login
//        JSON body: {password}
// Returns the static admin bearer token on success. Attempts are
// limited to 3 per 15 minutes per client IP, counted before the
// password is checked.
func (api API) login(r *http.Request) response {
	if r.Method != http.MethodPost {
		return methodNotAllowed("/api/admin/login", "POST")
	}
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Password == "" {
		return badRequest("Invalid password")
	}
	ip := clientIP(r)
	token, result, err := api.Auth.Login(input.Password, ip)
	switch err {
	case nil:
		return response{
			StatusCode: http.StatusOK,
			Body:       loginResult{Token: token},
			Headers:    sensitiveHeaders(),
		}
	case auth.ErrTooManyAttempts:
		log.Printf("Login rate limit hit for IP: %s", ip)
		return tooManyRequests(result)
	case auth.ErrInvalidCredentials:
		log.Printf("Failed admin login attempt from IP: %s", ip)
		return unauthorized("Wrong password")
	default:
		return serverError("login failed: %v", err)
	}
}

// adminContacts dispatches /api/admin/contacts by method:
//   GET    — list all contacts, most recent first (10 req/min/IP)
//   PATCH  — update one contact's status, ?id=<id>, body {status} (20 req/min/IP)
//   DELETE — delete one contact, ?id=<id> (10 req/min/IP)
// All methods require the bearer token header and run the rate check
// before the token check, so probing with bad tokens still consumes
// the caller's window.
func (api API) adminContacts(r *http.Request) response {
	switch r.Method {
	case http.MethodGet:
		return api.listContacts(r)
	case http.MethodPatch:
		return api.updateContactStatus(r)
	case http.MethodDelete:
		return api.deleteContact(r)
	default:
		return methodNotAllowed("/api/admin/contacts", "GET, PATCH and DELETE")
	}
}

// guardAdmin runs the rate check and token check shared by every admin
// operation. A non-nil return is the terminal response.
func (api API) guardAdmin(r *http.Request, operation string, limit int, window time.Duration) *response {
	ip := clientIP(r)
	result := api.Limiter.Check(operation+":"+ip, limit, window)
	if !result.Allowed {
		denied := tooManyRequests(result)
		return &denied
	}
	if !api.Auth.VerifyHeader(r.Header.Get(TokenHeader)) {
		log.Printf("Unauthorized %s attempt from IP: %s", operation, ip)
		denied := unauthorized("Not authorized. Invalid token.")
		return &denied
	}
	return nil
}

func (api API) listContacts(r *http.Request) response {
	if denied := api.guardAdmin(r, "admin:contacts", listLimit, listWindow); denied != nil {
		return *denied
	}
	contacts, err := api.Database.GetContacts()
	if err != nil {
		return serverError("failed to list contacts: %v", err)
	}
	return response{
		StatusCode: http.StatusOK,
		Body:       contacts,
		Headers:    sensitiveHeaders(),
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (api API) updateContactStatus(r *http.Request) response {
	if denied := api.guardAdmin(r, "admin:update", updateLimit, updateWindow); denied != nil {
		return *denied
	}
	id, err := getParam("id", r)
	if err != nil {
		return badRequest(err.Error())
	}
	if err := validator.ContactID(id); err != nil {
		return badRequest("Invalid id")
	}
	var input statusRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return badRequest("Invalid request body")
	}
	if !models.ValidStatus(input.Status) {
		return badRequest("Invalid status. Use 'new' or 'read'.")
	}
	contact := models.Contact{ID: id}
	updated, err := contact.MarkStatus(api.Database, models.ContactStatus(input.Status))
	if err == models.ErrNotFound {
		return notFound("Contact not found")
	}
	if err != nil {
		return serverError("failed to update contact: %v", err)
	}
	return response{
		StatusCode: http.StatusOK,
		Body:       updated,
		Headers:    sensitiveHeaders(),
	}
}

type deleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (api API) deleteContact(r *http.Request) response {
	if denied := api.guardAdmin(r, "admin:delete", deleteLimit, deleteWindow); denied != nil {
		return *denied
	}
	id, err := getParam("id", r)
	if err != nil {
		return badRequest(err.Error())
	}
	if err := validator.ContactID(id); err != nil {
		return badRequest("Invalid id")
	}
	contact, err := api.Database.GetContact(id)
	if err == models.ErrNotFound {
		return notFound("Contact not found")
	}
	if err != nil {
		return serverError("failed to load contact: %v", err)
	}
	// The audit entry is written before the deletion commits.
	api.Audit.RecordDeletion(contact.ID, contact.Email, time.Now().UTC(), clientIP(r))
	if err := api.Database.RemoveContact(id); err != nil {
		return serverError("failed to delete contact: %v", err)
	}
	return response{
		StatusCode: http.StatusOK,
		Body:       deleteResult{Success: true, Message: "Contact deleted successfully."},
		Headers:    sensitiveHeaders(),
	}
}
