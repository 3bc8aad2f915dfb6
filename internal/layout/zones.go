// internal/layout/zones.go
// Package layout composes the image-backed document pages: a full-bleed
// background with absolutely positioned overlay zones. Zone geometry is a
// compile-time contract with the shipped template artwork; changing a value
// here means re-validating every background image.
package layout

// Certificate preset (landscape). Percentages are relative to the page.
const (
	certNameTop   = "38%"
	certNameLeft  = "10%"
	certNameWidth = "80%"
	certNameFont  = "40px"

	certLine2Top   = "48%"
	certLine2Left  = "15%"
	certLine2Width = "70%"
	certLine2Font  = "20px"

	certQRSize  = "110px"
	certQRInset = "30px"

	certIDTop   = "145px"
	certIDRight = "30px"
	certIDWidth = "110px"
	certIDFont  = "11px"
)

// Offer-letter preset (portrait, physical units).
const (
	offerPadTop    = "5.5cm"
	offerPadSides  = "2.5cm"
	offerPadBottom = "2.5cm"

	offerQRSize  = "2.5cm"
	offerQRTop   = "3.5cm"
	offerQRRight = "2cm"

	offerIDTop   = "6.2cm"
	offerIDRight = "1.25cm"
	offerIDWidth = "4cm"
	offerIDFont  = "8pt"
)
