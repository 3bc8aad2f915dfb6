// internal/models/request.go
package models

// DocumentType selects the layout preset and page orientation.
type DocumentType string

const (
	DocumentTypeCertificate DocumentType = "certificate"
	DocumentTypeOfferLetter DocumentType = "offer-letter"
)

// ParseDocumentType maps the request's "type" field to a DocumentType.
// Anything other than "offer-letter" is a certificate, matching the
// default-certificate contract.
func ParseDocumentType(s string) DocumentType {
	if s == string(DocumentTypeOfferLetter) {
		return DocumentTypeOfferLetter
	}
	return DocumentTypeCertificate
}

// StudentData carries the subject fields placed on the document. Name is
// the only required field.
type StudentData struct {
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	RegisterNumber  string `json:"registerNumber,omitempty"`
	Department      string `json:"department,omitempty"`
	Year            string `json:"year,omitempty"`
	InstitutionName string `json:"institutionName,omitempty"`
	Pincode         string `json:"pincode,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
}

// CourseData carries the program fields placed on the document.
type CourseData struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// GenerationRequest is one document-generation job, consumed synchronously
// within a single pipeline call and discarded afterwards.
type GenerationRequest struct {
	StudentData   StudentData  `json:"studentData"`
	CourseData    CourseData   `json:"courseData"`
	CertificateID string       `json:"certificateId"`
	CallbackURL   string       `json:"callbackUrl"`
	TemplateID    string       `json:"templateId,omitempty"`
	TemplateURL   string       `json:"templateUrl,omitempty"`
	Type          string       `json:"type,omitempty"`
	QRCode        string       `json:"qrCode,omitempty"` // pre-rendered QR image as a data URI
}

// DocumentType resolves the request's layout preset.
func (r *GenerationRequest) DocumentType() DocumentType {
	return ParseDocumentType(r.Type)
}

// Artifact is the result of a successful generation call.
type Artifact struct {
	CertificateID string `json:"certificateId"`
	Path          string `json:"path"`
	FileURL       string `json:"fileUrl,omitempty"`
	SizeBytes     int64  `json:"sizeBytes"`
}
