package mailer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/bobmcallan/brief/internal/common"
	"github.com/bobmcallan/brief/internal/interfaces"
)

// smtpTransport delivers HTML mail over SMTP with STARTTLS
type smtpTransport struct {
	config common.MailConfig
}

// NewSMTPTransport creates a MailTransport backed by net/smtp
func NewSMTPTransport(config common.MailConfig) interfaces.MailTransport {
	return &smtpTransport{config: config}
}

// Send delivers one HTML message to one recipient
func (t *smtpTransport) Send(ctx context.Context, to, subject, htmlBody string) error {
	if t.config.Host == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if t.config.Username == "" || t.config.Password == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(t.config.FromName, t.config.From, to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", t.config.Host, t.config.Port)
	auth := smtp.PlainAuth("", t.config.Username, t.config.Password, t.config.Host)

	// smtp.SendMail negotiates STARTTLS when the server offers it
	return smtp.SendMail(addr, auth, t.config.From, []string{to}, []byte(msg))
}

// buildMessage assembles a MIME message with a base64-encoded HTML part.
// Base64 keeps every line under the RFC 5322 limit regardless of content.
func buildMessage(fromName, from, to, subject, htmlBody string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", fromName, from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeSubject(subject)))

	boundary := generateBoundary()
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks(htmlBody))
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return msg.String()
}

// encodeSubject applies RFC 2047 encoding so non-ASCII subjects survive transit
func encodeSubject(subject string) string {
	for i := 0; i < len(subject); i++ {
		if subject[i] > 127 {
			return fmt.Sprintf("=?UTF-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject)))
		}
	}
	return subject
}

func generateBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "brief_boundary_fallback"
	}
	return fmt.Sprintf("brief_%x", b)
}

// encodeBase64WithLineBreaks encodes content as base64 with 76-char line
// breaks per RFC 2045.
func encodeBase64WithLineBreaks(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var result strings.Builder
	const lineLen = 76

	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		result.WriteString(encoded[i:end])
		if end < len(encoded) {
			result.WriteString("\r\n")
		}
	}

	return result.String()
}
