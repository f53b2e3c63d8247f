package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	raven "github.com/getsentry/raven-go"

	"github.com/rmsilva/portfolio-backend/auth"
	"github.com/rmsilva/portfolio-backend/db"
	"github.com/rmsilva/portfolio-backend/models"
	"github.com/rmsilva/portfolio-backend/ratelimit"
)

////////////////////////////////
//  *****   REST API   *****  //
////////////////////////////////

// API is the HTTP API that this service provides.
// Every mutating admin operation runs the same pipeline: rate check,
// then token check, then identifier validation, then existence check,
// then the operation itself. The first failing stage is terminal.
type API struct {
	Database db.Database
	Auth     *auth.Service
	Limiter  *ratelimit.Limiter
	Emailer  EmailSender
	Audit    AuditLog
}

// EmailSender interface wraps a back-end that can send e-mails.
type EmailSender interface {
	// SendContactNotification notifies the admin of a new contact
	// message.
	SendContactNotification(*models.Contact) error
}

// AuditLog records destructive admin operations before they commit.
type AuditLog interface {
	RecordDeletion(id string, email string, when time.Time, clientIP string)
}

// LogAuditLog is the default AuditLog, writing to the process log.
type LogAuditLog struct{}

// RecordDeletion writes a single audit line for a contact deletion.
func (LogAuditLog) RecordDeletion(id string, email string, when time.Time, clientIP string) {
	log.Printf("[AUDIT] Contact deleted - ID: %s, Email: %s, Time: %s, IP: %s",
		id, email, when.Format(time.RFC3339), clientIP)
}

// TokenHeader is the header admin requests present their bearer token in.
const TokenHeader = "X-Admin-Token"

// response is what a handler produced: a status code, a JSON-encodable
// body, and any extra headers to set before writing.
type response struct {
	StatusCode int
	Body       interface{}
	Headers    map[string]string
}

// errorResponse is the JSON body of every non-2xx admin response.
type errorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

type apiHandler func(r *http.Request) response

func (api *API) wrapper(handler apiHandler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		response := handler(r)
		if response.StatusCode == http.StatusInternalServerError {
			packet := raven.NewPacket(fmt.Sprintf("%v", response.Body), raven.NewHttp(r))
			raven.Capture(packet, nil)
		}
		api.writeJSON(w, response)
	}
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
}

// RegisterHandlers binds API functions to the given http server,
// and returns the resulting handler.
func (api *API) RegisterHandlers(mux *http.ServeMux) http.Handler {
	mux.HandleFunc("/api/contact", api.wrapper(api.submitContact))
	mux.HandleFunc("/api/admin/login", api.wrapper(api.login))
	mux.HandleFunc("/api/admin/contacts", api.wrapper(api.adminContacts))
	mux.HandleFunc("/api/ping", pingHandler)
	return middleware(mux)
}

// Writes the response body as a JSON object to http.ResponseWriter `w`.
// If an error occurs, writes `http.StatusInternalServerError` to `w`.
func (api *API) writeJSON(w http.ResponseWriter, apiResponse response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	for name, value := range apiResponse.Headers {
		w.Header().Set(name, value)
	}
	b, err := json.MarshalIndent(apiResponse.Body, "", "  ")
	if err != nil {
		msg := fmt.Sprintf("Internal error: could not format JSON. (%s)\n", err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(apiResponse.StatusCode)
	fmt.Fprintf(w, "%s\n", b)
}

// sensitiveHeaders disables caching and turns on anti-sniffing and
// anti-framing protection for authenticated endpoints.
func sensitiveHeaders() map[string]string {
	return map[string]string{
		"Cache-Control":          "no-store, no-cache, must-revalidate",
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
}

func badRequest(format string, a ...interface{}) response {
	return response{
		StatusCode: http.StatusBadRequest,
		Body:       errorResponse{Error: fmt.Sprintf(format, a...)},
		Headers:    sensitiveHeaders(),
	}
}

func unauthorized(format string, a ...interface{}) response {
	return response{
		StatusCode: http.StatusUnauthorized,
		Body:       errorResponse{Error: fmt.Sprintf(format, a...)},
		Headers:    sensitiveHeaders(),
	}
}

func notFound(format string, a ...interface{}) response {
	return response{
		StatusCode: http.StatusNotFound,
		Body:       errorResponse{Error: fmt.Sprintf(format, a...)},
		Headers:    sensitiveHeaders(),
	}
}

func serverError(format string, a ...interface{}) response {
	return response{
		StatusCode: http.StatusInternalServerError,
		Body:       errorResponse{Error: fmt.Sprintf(format, a...)},
		Headers:    sensitiveHeaders(),
	}
}

// tooManyRequests builds a 429 with Retry-After and rate-limit headers
// derived from the denying limiter result.
func tooManyRequests(result ratelimit.Result) response {
	retryAfter := result.RetryAfter(time.Now())
	headers := sensitiveHeaders()
	headers["Retry-After"] = fmt.Sprintf("%d", retryAfter)
	headers["X-RateLimit-Limit"] = fmt.Sprintf("%d", result.Limit)
	headers["X-RateLimit-Remaining"] = fmt.Sprintf("%d", result.Remaining)
	return response{
		StatusCode: http.StatusTooManyRequests,
		Body: errorResponse{
			Error:      "Too many requests. Try again later.",
			RetryAfter: retryAfter,
		},
		Headers: headers,
	}
}

func methodNotAllowed(path string, allowed string) response {
	return response{
		StatusCode: http.StatusMethodNotAllowed,
		Body:       errorResponse{Error: fmt.Sprintf("%s only accepts %s requests", path, allowed)},
	}
}

// clientIP extracts the requesting client's IP, preferring the first
// X-Forwarded-For entry, then X-Real-IP, then the connection address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}

// Retrieves `param` as a query parameter from `http.Request` r.
// If fails, then returns an error.
func getParam(param string, r *http.Request) (string, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return "", fmt.Errorf("query parameter %s not specified", param)
	}
	return value, nil
}
