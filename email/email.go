package email

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/rmsilva/portfolio-backend/models"
	"github.com/rmsilva/portfolio-backend/util"
)

// Config stores variables needed to submit emails for sending, as well
// as to generate the notification text.
type Config struct {
	auth               smtp.Auth
	username           string
	password           string
	submissionHostname string
	port               string
	sender             string
	adminAddress       string // Where new-contact notifications go.
}

// MakeConfigFromEnv initializes our email config object with
// environment variables.
func MakeConfigFromEnv() (Config, error) {
	// create config
	varErrs := util.Errors{}
	c := Config{
		username:           util.RequireEnv("SMTP_USERNAME", &varErrs),
		password:           util.RequireEnv("SMTP_PASSWORD", &varErrs),
		submissionHostname: util.RequireEnv("SMTP_ENDPOINT", &varErrs),
		port:               util.RequireEnv("SMTP_PORT", &varErrs),
		sender:             util.RequireEnv("SMTP_FROM_ADDRESS", &varErrs),
		adminAddress:       util.RequireEnv("ADMIN_EMAIL", &varErrs),
	}
	if len(varErrs) > 0 {
		return c, varErrs
	}
	log.Printf("Establishing auth connection with SMTP server %s", c.submissionHostname)
	// create auth
	client, err := smtp.Dial(fmt.Sprintf("%s:%s", c.submissionHostname, c.port))
	if err != nil {
		return c, err
	}
	defer client.Close()
	err = client.StartTLS(&tls.Config{ServerName: c.submissionHostname})
	if err != nil {
		return c, fmt.Errorf("SMTP server doesn't support STARTTLS")
	}
	ok, auths := client.Extension("AUTH")
	if !ok {
		return c, fmt.Errorf("remote SMTP server doesn't support any authentication mechanisms")
	}
	if strings.Contains(auths, "PLAIN") {
		c.auth = smtp.PlainAuth("", c.username, c.password, c.submissionHostname)
	} else if strings.Contains(auths, "CRAM-MD5") {
		c.auth = smtp.CRAMMD5Auth(c.username, c.password)
	} else {
		return c, fmt.Errorf("SMTP server doesn't support PLAIN or CRAM-MD5 authentication")
	}
	return c, nil
}

// SendContactNotification emails the admin about a newly submitted
// contact message. The reply-to is set to the submitter so the admin
// can answer directly.
func (c Config) SendContactNotification(contact *models.Contact) error {
	subject := fmt.Sprintf(notificationSubject, contact.Subject)
	body := notificationText(contact)
	return c.sendEmail(subject, body, contact.Email, c.adminAddress)
}

func (c Config) sendEmail(subject string, body string, replyTo string, address string) error {
	message := fmt.Sprintf("From: %s\nTo: %s\nReply-To: %s\nSubject: %s\n\n%s",
		c.sender, address, replyTo, subject, body)
	if c.submissionHostname == "" {
		log.Println("Warning: email host not configured, not sending email")
		log.Println(message)
		return nil
	}
	return smtp.SendMail(fmt.Sprintf("%s:%s", c.submissionHostname, c.port),
		c.auth,
		c.sender, []string{address}, []byte(message))
}
