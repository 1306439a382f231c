package mailer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Attachment is one file carried by the e-mail.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Client sends HTML e-mail through an Office365-style SMTP relay
// (STARTTLS, LOGIN auth).
type Client struct {
	host     string
	port     string
	user     string
	password string
}

func NewClient(host, port, user, password string) *Client {
	return &Client{host: host, port: port, user: user, password: password}
}

// SendHTML dispatches one message. An empty recipient list is a
// configuration error surfaced to the caller, not swallowed.
func (c *Client) SendHTML(subject, html string, to, cc, bcc []string, attachments []Attachment, priorityHigh bool) error {
	if len(to) == 0 {
		return errors.New("no recipients configured")
	}

	msg := BuildMessage(c.user, subject, html, to, cc, attachments, priorityHigh)
	recipients := make([]string, 0, len(to)+len(cc)+len(bcc))
	recipients = append(recipients, to...)
	recipients = append(recipients, cc...)
	recipients = append(recipients, bcc...)

	addr := c.host + ":" + c.port
	if err := smtp.SendMail(addr, LoginAuth(c.user, c.password), c.user, recipients, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

const boundary = "SENTINELA_CORTE_MIME_BOUNDARY"

// BuildMessage assembles the full RFC 2822 payload: headers, an HTML
// body part and base64 attachment parts. Bcc recipients go only on the
// SMTP envelope, never into headers.
func BuildMessage(from, subject, html string, to, cc []string, attachments []Attachment, priorityHigh bool) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	if len(cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	if priorityHigh {
		b.WriteString("X-Priority: 1\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%s\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	for _, att := range attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", att.Filename)

		encoded := base64.StdEncoding.EncodeToString(att.Content)
		// 76-char lines per MIME convention.
		for i := 0; i < len(encoded); i += 76 {
			end := i + 76
			if end > len(encoded) {
				end = len(encoded)
			}
			b.WriteString(encoded[i:end])
			b.WriteString("\r\n")
		}
	}
	fmt.Fprintf(&b, "--%s--", boundary)

	return []byte(b.String())
}

type loginAuth struct {
	username, password string
}

// LoginAuth implements the LOGIN mechanism Office365 expects.
func LoginAuth(username, password string) smtp.Auth {
	return &loginAuth{username, password}
}

func (a *loginAuth) Start(*smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte(a.username), nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		switch string(fromServer) {
		case "Username:":
			return []byte(a.username), nil
		case "Password:":
			return []byte(a.password), nil
		default:
			return nil, errors.New("unknown prompt from server")
		}
	}
	return nil, nil
}
