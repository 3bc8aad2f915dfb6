// internal/layout/compositor.go
package layout

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"time"

	"certificate-service/internal/docx"
	"certificate-service/internal/models"
)

// Document is the input to composition: the request, the resolved background
// image and everything needed for the overlay zones.
type Document struct {
	Request        *models.GenerationRequest
	Background     []byte
	BackgroundMIME string
	CompanyName    string
	// VerifyURL seeds a generated QR code when the request carries no
	// pre-rendered one. Empty means no QR zone at all.
	VerifyURL   string
	GeneratedAt time.Time
}

// Compose renders the HTML page for an image-backed document.
func Compose(doc Document) (string, error) {
	qr, err := doc.qrDataURI()
	if err != nil {
		return "", err
	}
	switch doc.Request.DocumentType() {
	case models.DocumentTypeOfferLetter:
		return composeOfferLetter(doc, qr), nil
	default:
		return composeCertificate(doc, qr), nil
	}
}

func (d Document) backgroundDataURI() string {
	mime := d.BackgroundMIME
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(d.Background)
}

// qrDataURI returns the QR image for the document: the caller-supplied data
// URI verbatim, a generated one from the verification URL, or empty when
// neither is available.
func (d Document) qrDataURI() (string, error) {
	if d.Request.QRCode != "" {
		return d.Request.QRCode, nil
	}
	if d.VerifyURL != "" {
		return GenerateQRDataURI(d.VerifyURL)
	}
	return "", nil
}

// certificateLine1 is the subject line: upper-cased name, register number
// appended in parentheses when present.
func certificateLine1(student models.StudentData) string {
	line := strings.ToUpper(student.Name)
	if student.RegisterNumber != "" {
		line += " (" + strings.ToUpper(student.RegisterNumber) + ")"
	}
	return line
}

func composeCertificate(doc Document, qr string) string {
	student := doc.Request.StudentData
	line1 := html.EscapeString(certificateLine1(student))
	line2 := html.EscapeString(strings.ToUpper(student.InstitutionName))

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n<style>\n")
	fmt.Fprintf(&b, `@page { size: A4 landscape; margin: 0; }
html, body { margin: 0; padding: 0; width: 100%%; height: 100%%; }
.page { position: relative; width: 100%%; height: 100%%; background-image: url('%s'); background-size: 100%% 100%%; background-repeat: no-repeat; }
.name { position: absolute; top: %s; left: %s; width: %s; font: bold %s 'Times New Roman', serif; text-align: center; text-transform: uppercase; overflow-wrap: break-word; }
.line2 { position: absolute; top: %s; left: %s; width: %s; font: bold %s Helvetica, Arial, sans-serif; color: #333; text-align: center; text-transform: uppercase; overflow-wrap: break-word; }
.qr { position: absolute; top: %s; right: %s; width: %s; height: %s; }
.cert-id { position: absolute; top: %s; right: %s; width: %s; font: %s 'Courier New', monospace; text-align: center; background: rgba(255,255,255,0.7); }
`,
		doc.backgroundDataURI(),
		certNameTop, certNameLeft, certNameWidth, certNameFont,
		certLine2Top, certLine2Left, certLine2Width, certLine2Font,
		certQRInset, certQRInset, certQRSize, certQRSize,
		certIDTop, certIDRight, certIDWidth, certIDFont,
	)
	b.WriteString("</style>\n</head>\n<body>\n<div class=\"page\">\n")
	fmt.Fprintf(&b, "<div class=\"name\">%s</div>\n", line1)
	if line2 != "" {
		fmt.Fprintf(&b, "<div class=\"line2\">%s</div>\n", line2)
	}
	if qr != "" {
		fmt.Fprintf(&b, "<img class=\"qr\" src=\"%s\" alt=\"\"/>\n", html.EscapeString(qr))
	}
	fmt.Fprintf(&b, "<div class=\"cert-id\">%s</div>\n", html.EscapeString(doc.Request.CertificateID))
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

// yearDepartmentLine joins year and department for the address block.
// Either field alone still yields a line; both join with " & ".
func yearDepartmentLine(student models.StudentData) string {
	switch {
	case student.Year != "" && student.Department != "":
		return student.Year + " & " + student.Department
	case student.Year != "":
		return student.Year
	default:
		return student.Department
	}
}

func composeOfferLetter(doc Document, qr string) string {
	student := doc.Request.StudentData
	course := doc.Request.CourseData
	company := html.EscapeString(doc.CompanyName)

	startDate := docx.FormatDate(course.StartDate)
	if startDate == "" {
		startDate = "Immediate"
	}
	endDate := docx.FormatDate(course.EndDate)
	if endDate == "" {
		endDate = "TBD"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n<style>\n")
	fmt.Fprintf(&b, `@page { size: A4 portrait; margin: 0; }
html, body { margin: 0; padding: 0; width: 100%%; height: 100%%; }
.page { position: relative; width: 100%%; height: 100%%; background-image: url('%s'); background-size: 100%% 100%%; background-repeat: no-repeat; font: 11pt Helvetica, Arial, sans-serif; line-height: 1.5; }
.content { padding: %s %s %s %s; }
.date { text-align: right; font-weight: bold; }
.title { text-align: center; text-decoration: underline; text-transform: uppercase; font-weight: bold; margin: 18px 0; }
.body-text { text-align: justify; }
.details { border-collapse: collapse; margin: 14px 0; }
.details td { border: 1px solid #333; padding: 4px 12px; }
.qr { position: absolute; top: %s; right: %s; width: %s; height: %s; }
.cert-id { position: absolute; top: %s; right: %s; width: %s; font: %s Helvetica, Arial, sans-serif; text-align: center; background: rgba(255,255,255,0.8); }
`,
		doc.backgroundDataURI(),
		offerPadTop, offerPadSides, offerPadBottom, offerPadSides,
		offerQRTop, offerQRRight, offerQRSize, offerQRSize,
		offerIDTop, offerIDRight, offerIDWidth, offerIDFont,
	)
	b.WriteString("</style>\n</head>\n<body>\n<div class=\"page\">\n<div class=\"content\">\n")

	fmt.Fprintf(&b, "<p class=\"date\">%s</p>\n", doc.GeneratedAt.Format("January 2, 2006"))

	b.WriteString("<p>To,<br/>\n")
	fmt.Fprintf(&b, "%s<br/>\n", html.EscapeString(student.Name))
	if student.RegisterNumber != "" {
		fmt.Fprintf(&b, "%s<br/>\n", html.EscapeString(student.RegisterNumber))
	}
	if line := yearDepartmentLine(student); line != "" {
		fmt.Fprintf(&b, "%s<br/>\n", html.EscapeString(line))
	}
	if student.InstitutionName != "" {
		fmt.Fprintf(&b, "%s<br/>\n", html.EscapeString(student.InstitutionName))
	}
	b.WriteString("</p>\n")

	b.WriteString("<p class=\"title\">Internship Offer Letter</p>\n")
	fmt.Fprintf(&b, "<p>Dear %s,</p>\n", html.EscapeString(student.Name))
	fmt.Fprintf(&b, "<p class=\"body-text\">We are pleased to offer you an internship position at %s for the %s program. Please find the engagement details below.</p>\n",
		company, html.EscapeString(strings.ToUpper(course.Title)))

	b.WriteString("<table class=\"details\">\n")
	b.WriteString("<tr><td>Position Title</td><td>Technical Intern</td></tr>\n")
	fmt.Fprintf(&b, "<tr><td>Start Date</td><td>%s</td></tr>\n", html.EscapeString(startDate))
	fmt.Fprintf(&b, "<tr><td>End Date</td><td>%s</td></tr>\n", html.EscapeString(endDate))
	b.WriteString("</table>\n")

	fmt.Fprintf(&b, "<p>We look forward to having you with us.</p>\n<p>Sincerely,<br/>%s</p>\n", company)
	b.WriteString("</div>\n")

	if qr != "" {
		fmt.Fprintf(&b, "<img class=\"qr\" src=\"%s\" alt=\"\"/>\n", html.EscapeString(qr))
	}
	fmt.Fprintf(&b, "<div class=\"cert-id\">%s</div>\n", html.EscapeString(doc.Request.CertificateID))
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}
