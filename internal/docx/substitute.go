// internal/docx/substitute.go
package docx

import (
	"strings"
	"time"

	"certificate-service/internal/common/errors"
	"certificate-service/internal/models"
	"certificate-service/internal/template"
)

// Substitution delimiters for packaged-document templates.
const (
	OpenDelim  = "[%"
	CloseDelim = "%]"
)

// dateLayouts are the accepted formats for request date strings, tried in
// order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// FormatDate renders a request date string as DD/MM/YYYY. Unparseable
// values pass through verbatim rather than failing the render.
func FormatDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Format("02/01/2006")
		}
	}
	return value
}

// Vocabulary builds the placeholder key set for a request, aliases included.
// Template authors have used several spellings for the same field over the
// years; every spelling stays supported.
func Vocabulary(req *models.GenerationRequest, companyName string, now time.Time) map[string]string {
	student := req.StudentData
	course := req.CourseData

	vocab := map[string]string{
		"name":            student.Name,
		"Name":            student.Name,
		"NAME":            strings.ToUpper(student.Name),
		"registerNumber":  student.RegisterNumber,
		"department":      student.Department,
		"year":            student.Year,
		"institutionName": student.InstitutionName,
		"pincode":         student.Pincode,
		"city":            student.City,
		"state":           student.State,
		"title":           course.Title,
		"internshipName":  course.Title,
		"courseName":      course.Title,
		"startDate":       FormatDate(course.StartDate),
		"Start_Date":      FormatDate(course.StartDate),
		"endDate":         FormatDate(course.EndDate),
		"End_Date":        FormatDate(course.EndDate),
		"today":           now.Format("January 2, 2006"),
		"companyName":     companyName,
		"Company_Name":    companyName,
	}
	return vocab
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Substitute replaces every [%key%] placeholder in the document markup with
// the vocabulary value, XML-escaped. Unknown keys resolve to the empty
// string so no delimiter ever leaks into the output. A dangling open
// delimiter left after repair is a render error naming the offending
// fragment.
func Substitute(documentXML string, vocab map[string]string) (string, error) {
	repairer := template.NewRepairer(OpenDelim, CloseDelim)
	tokens := repairer.Placeholders(documentXML)

	var out strings.Builder
	out.Grow(len(documentXML))

	last := 0
	for _, tok := range tokens {
		out.WriteString(documentXML[last:tok.Open])
		key := strings.TrimSpace(tok.Content)
		out.WriteString(xmlEscaper.Replace(vocab[key]))
		last = tok.Close + len(CloseDelim)
	}
	out.WriteString(documentXML[last:])

	result := out.String()
	if idx := strings.Index(result, OpenDelim); idx >= 0 {
		end := idx + 40
		if end > len(result) {
			end = len(result)
		}
		return "", errors.NewTemplateRenderError(
			"unterminated placeholder in document template",
			[]string{result[idx:end]},
		)
	}
	return result, nil
}
