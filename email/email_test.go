package email

import (
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mhale/smtpd"

	"github.com/rmsilva/portfolio-backend/models"
	"github.com/rmsilva/portfolio-backend/util"
)

func sampleContact() *models.Contact {
	return &models.Contact{
		ID:        "cjld2cjxh0000qzrmn831i7rn",
		Name:      "Ana Silva",
		Email:     "ana@x.com",
		Subject:   "Orçamento projeto",
		Message:   "Gostaria de um orçamento para um site.",
		Status:    models.StatusNew,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotificationText(t *testing.T) {
	content := notificationText(sampleContact())
	for _, want := range []string{
		"Ana Silva",
		"ana@x.com",
		"Orçamento projeto",
		"cjld2cjxh0000qzrmn831i7rn",
		"2024-03-01T12:00:00Z",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("notification text missing %q:\n%s", want, content)
		}
	}
}

func TestRequireMissingEnvErrors(t *testing.T) {
	varErrs := util.Errors{}
	util.RequireEnv("FAKE_ENV_VAR", &varErrs)
	if len(varErrs) == 0 {
		t.Errorf("should have received an error")
	}
}

func TestRequireEnvConfig(t *testing.T) {
	requiredVars := map[string]string{
		"SMTP_USERNAME":     "",
		"SMTP_PASSWORD":     "",
		"SMTP_ENDPOINT":     "",
		"SMTP_PORT":         "",
		"SMTP_FROM_ADDRESS": "",
		"ADMIN_EMAIL":       ""}
	for varName := range requiredVars {
		requiredVars[varName] = os.Getenv(varName)
		os.Setenv(varName, "")
	}
	_, err := MakeConfigFromEnv()
	if err == nil {
		t.Errorf("should have received multiple errors from unset env vars")
	}
	for varName, varValue := range requiredVars {
		os.Setenv(varName, varValue)
	}
}

func TestUnconfiguredHostLogsInsteadOfSending(t *testing.T) {
	c := Config{sender: "noreply@example.com", adminAddress: "admin@example.com"}
	if err := c.SendContactNotification(sampleContact()); err != nil {
		t.Errorf("unconfigured host should be a logged no-op, got %v", err)
	}
}

func TestSendContactNotificationOverSMTP(t *testing.T) {
	received := make(chan []byte, 1)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	srv := &smtpd.Server{
		Appname:  "portfolio-test",
		Hostname: "localhost",
		Handler: func(origin net.Addr, from string, to []string, data []byte) {
			received <- data
		},
	}
	go srv.Serve(ln)

	port := ln.Addr().(*net.TCPAddr).Port
	c := Config{
		submissionHostname: "127.0.0.1",
		port:               fmt.Sprintf("%d", port),
		sender:             "noreply@example.com",
		adminAddress:       "admin@example.com",
	}
	if err := c.SendContactNotification(sampleContact()); err != nil {
		t.Fatalf("SendContactNotification failed: %v", err)
	}
	select {
	case data := <-received:
		body := string(data)
		if !strings.Contains(body, "Reply-To: ana@x.com") {
			t.Errorf("notification missing reply-to header:\n%s", body)
		}
		if !strings.Contains(body, "New contact message") {
			t.Errorf("notification missing subject:\n%s", body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for SMTP delivery")
	}
}
