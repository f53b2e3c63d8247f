package email

import (
	"fmt"
	"time"

	"github.com/rmsilva/portfolio-backend/models"
)

const notificationSubject = "New contact message: %s"

const notificationTemplate = `
You received a new message through the portfolio contact form.

Name:    %[1]s
Email:   %[2]s
Subject: %[3]s

%[4]s

Message id: %[5]s
Received:   %[6]s

Reply to this email to answer directly.
`

func notificationText(contact *models.Contact) string {
	return fmt.Sprintf(notificationTemplate,
		contact.Name, contact.Email, contact.Subject, contact.Message,
		contact.ID, contact.CreatedAt.Format(time.RFC3339))
}
