// internal/docx/docx.go
// Package docx handles packaged word-processing templates: reading the main
// document part out of the zip container, writing a modified part back, and
// converting the markup to printable HTML.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// documentPart is the main document part inside the package.
const documentPart = "word/document.xml"

// ReadDocumentXML extracts the main document markup from a packaged
// template.
func ReadDocumentXML(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open document package: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", documentPart, err)
		}
		return string(content), nil
	}

	return "", fmt.Errorf("document package has no %s part", documentPart)
}

// Rewrite produces a new package with the main document part replaced and
// every other entry copied through unchanged.
func Rewrite(data []byte, documentXML string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open document package: %w", err)
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)

	replaced := false
	for _, file := range reader.File {
		header := file.FileHeader
		w, err := writer.CreateHeader(&header)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", file.Name, err)
		}

		if file.Name == documentPart {
			if _, err := w.Write([]byte(documentXML)); err != nil {
				return nil, fmt.Errorf("write %s: %w", documentPart, err)
			}
			replaced = true
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", file.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("copy %s: %w", file.Name, err)
		}
		rc.Close()
	}

	if !replaced {
		return nil, fmt.Errorf("document package has no %s part", documentPart)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize document package: %w", err)
	}
	return out.Bytes(), nil
}
