package mailer

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildMessageHeadersAndBody(t *testing.T) {
	msg := string(BuildMessage(
		"sentinela@example.com",
		"Sentinela · Corte - 15/03/2024 08:05",
		"<html><body>ok</body></html>",
		[]string{"a@example.com", "b@example.com"},
		[]string{"c@example.com"},
		nil,
		true,
	))

	for _, want := range []string{
		"From: sentinela@example.com\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Cc: c@example.com\r\n",
		"Subject: Sentinela · Corte - 15/03/2024 08:05\r\n",
		"X-Priority: 1\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/html; charset=utf-8\r\n",
		"<html><body>ok</body></html>",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	if !strings.HasSuffix(msg, "--") {
		t.Fatal("message must end with the closing boundary")
	}
}

func TestBuildMessageAttachment(t *testing.T) {
	content := []byte("CODFILIAL,PVENDA_CORTE\n1,120.50\n")
	msg := string(BuildMessage(
		"sentinela@example.com", "assunto", "<p>corpo</p>",
		[]string{"a@example.com"}, nil,
		[]Attachment{{Filename: "Sentinela Corte 15032024.csv", ContentType: "text/csv", Content: content}},
		false,
	))

	if !strings.Contains(msg, `Content-Disposition: attachment; filename="Sentinela Corte 15032024.csv"`) {
		t.Fatalf("missing attachment disposition:\n%s", msg)
	}
	if !strings.Contains(msg, "Content-Transfer-Encoding: base64\r\n") {
		t.Fatal("attachment must be base64 encoded")
	}
	encoded := base64.StdEncoding.EncodeToString(content)
	if !strings.Contains(strings.ReplaceAll(msg, "\r\n", ""), encoded) {
		t.Fatal("attachment payload must round-trip through base64")
	}
	if strings.Contains(msg, "X-Priority") {
		t.Fatal("priority header must be absent when not requested")
	}
}

func TestSendHTMLRequiresRecipients(t *testing.T) {
	c := NewClient("smtp.office365.com", "587", "user@example.com", "secret")
	if err := c.SendHTML("s", "<p>x</p>", nil, nil, nil, nil, false); err == nil {
		t.Fatal("expected error for empty recipient list")
	}
}
