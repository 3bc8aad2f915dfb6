// internal/mailer/message.go
// Package mailer delivers the rendered document to the student by email.
package mailer

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"certificate-service/internal/models"
)

// Message is one outbound email with a single PDF attachment.
type Message struct {
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// attachmentBaseName maps a document type to its attachment filename prefix.
func attachmentBaseName(docType models.DocumentType) string {
	if docType == models.DocumentTypeOfferLetter {
		return "Offer_Letter"
	}
	return "Certificate"
}

// underscored collapses whitespace runs in a name to single underscores for
// use in filenames.
func underscored(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

// BuildMessage assembles the delivery email for a finished document.
func BuildMessage(req *models.GenerationRequest, from string, pdf []byte) Message {
	student := req.StudentData
	docType := req.DocumentType()

	var subject, body string
	switch docType {
	case models.DocumentTypeOfferLetter:
		subject = fmt.Sprintf("Your Offer Letter - %s", student.Name)
		body = fmt.Sprintf("Dear %s,\r\n\r\nPlease find your internship offer letter attached.\r\n\r\nBest regards", student.Name)
	default:
		subject = fmt.Sprintf("Your Certificate - %s", student.Name)
		body = fmt.Sprintf("Dear %s,\r\n\r\nCongratulations! Please find your certificate attached.\r\n\r\nBest regards", student.Name)
	}

	return Message{
		From:           from,
		To:             student.Email,
		Subject:        subject,
		Body:           body,
		AttachmentName: fmt.Sprintf("%s_%s.pdf", attachmentBaseName(docType), underscored(student.Name)),
		Attachment:     pdf,
	}
}

// mimeBoundary separates the multipart sections. A fixed boundary is fine;
// the PDF payload is base64-encoded and can never contain it.
const mimeBoundary = "certsvc-mime-boundary"

// MIME renders the message as a complete multipart/mixed email, the format
// both the SMTP transport and the SES raw API consume.
func (m Message) MIME() []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s\r\n", m.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", m.To))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", m.Subject))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", mimeBoundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(m.Body)
	b.WriteString("\r\n")

	if len(m.Attachment) > 0 {
		b.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
		b.WriteString("Content-Type: application/pdf\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", m.AttachmentName))

		encoded := base64.StdEncoding.EncodeToString(m.Attachment)
		// 76-character lines per RFC 2045.
		for len(encoded) > 76 {
			b.WriteString(encoded[:76])
			b.WriteString("\r\n")
			encoded = encoded[76:]
		}
		b.WriteString(encoded)
		b.WriteString("\r\n")
	}

	b.WriteString(fmt.Sprintf("--%s--\r\n", mimeBoundary))
	return []byte(b.String())
}
