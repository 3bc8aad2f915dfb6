// internal/layout/qr.go
package layout

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrPixels is the raster size of generated QR images. It comfortably covers
// both zone sizes at print resolution.
const qrPixels = 256

// GenerateQRDataURI renders content as a QR code and returns it as a PNG
// data URI suitable for an <img> src.
func GenerateQRDataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrPixels)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
