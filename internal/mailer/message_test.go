package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificate-service/internal/models"
)

func TestBuildMessage_Certificate(t *testing.T) {
	req := &models.GenerationRequest{
		StudentData: models.StudentData{Name: "Jane Mary Doe", Email: "jane@example.com"},
	}

	msg := BuildMessage(req, "noreply@example.com", []byte("pdf"))

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, "Your Certificate - Jane Mary Doe", msg.Subject)
	assert.Contains(t, msg.Body, "Congratulations")
	assert.Equal(t, "Certificate_Jane_Mary_Doe.pdf", msg.AttachmentName)
}

func TestBuildMessage_OfferLetter(t *testing.T) {
	req := &models.GenerationRequest{
		StudentData: models.StudentData{Name: "Jane Doe", Email: "jane@example.com"},
		Type:        "offer-letter",
	}

	msg := BuildMessage(req, "noreply@example.com", []byte("pdf"))

	assert.Equal(t, "Your Offer Letter - Jane Doe", msg.Subject)
	assert.Contains(t, msg.Body, "offer letter")
	assert.Equal(t, "Offer_Letter_Jane_Doe.pdf", msg.AttachmentName)
}

func TestUnderscored(t *testing.T) {
	assert.Equal(t, "Jane_Doe", underscored("Jane Doe"))
	assert.Equal(t, "Jane_Doe", underscored("  Jane   Doe  "))
	assert.Equal(t, "Solo", underscored("Solo"))
}

func TestMessage_MIME(t *testing.T) {
	msg := Message{
		From:           "noreply@example.com",
		To:             "jane@example.com",
		Subject:        "Your Certificate - Jane",
		Body:           "Dear Jane,",
		AttachmentName: "Certificate_Jane.pdf",
		Attachment:     []byte("%PDF-1.4 fake"),
	}

	raw := string(msg.MIME())

	assert.Contains(t, raw, "From: noreply@example.com\r\n")
	assert.Contains(t, raw, "To: jane@example.com\r\n")
	assert.Contains(t, raw, "Subject: Your Certificate - Jane\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/mixed")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, raw, "Content-Type: application/pdf")
	assert.Contains(t, raw, `filename="Certificate_Jane.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
	// Closing boundary terminates the message.
	require.True(t, strings.HasSuffix(raw, "--"+mimeBoundary+"--\r\n"))
}

func TestMessage_MIMEWrapsBase64Lines(t *testing.T) {
	msg := Message{
		From:           "a@example.com",
		To:             "b@example.com",
		Subject:        "x",
		AttachmentName: "f.pdf",
		Attachment:     make([]byte, 600),
	}

	raw := string(msg.MIME())
	inAttachment := false
	for _, line := range strings.Split(raw, "\r\n") {
		if strings.HasPrefix(line, "Content-Transfer-Encoding") {
			inAttachment = true
			continue
		}
		if inAttachment && strings.HasPrefix(line, "--") {
			break
		}
		if inAttachment {
			assert.LessOrEqual(t, len(line), 76)
		}
	}
}
