// internal/docx/convert.go
package docx

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strings"
)

// printStylesheet is the fixed print CSS for document-derived output. The
// values are part of the output contract, not configuration.
const printStylesheet = `@page { size: A4 portrait; margin: 1cm; }
body { font-family: 'Times New Roman', Times, serif; font-size: 11pt; line-height: 1.25; }
p { margin: 0 0 8px 0; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #ddd; padding: 4px 8px; }`

type runProps struct {
	Bold      *toggleProp    `xml:"b"`
	Italic    *toggleProp    `xml:"i"`
	Underline *underlineProp `xml:"u"`
}

type toggleProp struct {
	Val string `xml:"val,attr"`
}

func (p *toggleProp) on() bool {
	if p == nil {
		return false
	}
	switch strings.ToLower(p.Val) {
	case "0", "false", "none", "off":
		return false
	}
	return true
}

type underlineProp struct {
	Val string `xml:"val,attr"`
}

func (p *underlineProp) on() bool {
	return p != nil && !strings.EqualFold(p.Val, "none")
}

// run is one formatting span. Text fragments and explicit breaks keep their
// document order, which the default struct decoding would lose.
type run struct {
	props  runProps
	pieces []runPiece
}

type runPiece struct {
	text    string
	isBreak bool
}

func (r *run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				if err := d.DecodeElement(&r.props, &t); err != nil {
					return err
				}
			case "t":
				var text string
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.pieces = append(r.pieces, runPiece{text: text})
			case "br", "cr":
				r.pieces = append(r.pieces, runPiece{isBreak: true})
				if err := d.Skip(); err != nil {
					return err
				}
			case "tab":
				r.pieces = append(r.pieces, runPiece{text: "\t"})
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

// Convert turns substituted WordprocessingML into an HTML document wrapped
// in the fixed print stylesheet. Paragraphs, bold/italic/underline runs,
// explicit breaks and tables survive; everything else (sections, drawings,
// numbering) is dropped.
func Convert(documentXML string) (string, error) {
	body, err := convertBody(documentXML)
	if err != nil {
		return "", err
	}
	return wrapHTML(body), nil
}

func convertBody(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var out strings.Builder
	inBody := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document markup: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "body":
			inBody = true
		case "p":
			if !inBody {
				continue
			}
			var par paragraph
			if err := dec.DecodeElement(&par, &start); err != nil {
				return "", fmt.Errorf("parse paragraph: %w", err)
			}
			writeParagraph(&out, par)
		case "tbl":
			if !inBody {
				continue
			}
			var tbl table
			if err := dec.DecodeElement(&tbl, &start); err != nil {
				return "", fmt.Errorf("parse table: %w", err)
			}
			writeTable(&out, tbl)
		}
	}
	return out.String(), nil
}

func writeParagraph(out *strings.Builder, par paragraph) {
	out.WriteString("<p>")
	for _, r := range par.Runs {
		writeRun(out, r)
	}
	out.WriteString("</p>\n")
}

func writeRun(out *strings.Builder, r run) {
	var openTags, closeTags string
	if r.props.Bold.on() {
		openTags += "<strong>"
		closeTags = "</strong>" + closeTags
	}
	if r.props.Italic.on() {
		openTags += "<em>"
		closeTags = "</em>" + closeTags
	}
	if r.props.Underline.on() {
		openTags += "<u>"
		closeTags = "</u>" + closeTags
	}

	out.WriteString(openTags)
	for _, piece := range r.pieces {
		if piece.isBreak {
			out.WriteString("<br/>")
			continue
		}
		out.WriteString(html.EscapeString(piece.text))
	}
	out.WriteString(closeTags)
}

func writeTable(out *strings.Builder, tbl table) {
	out.WriteString("<table>\n")
	for _, row := range tbl.Rows {
		out.WriteString("<tr>")
		for _, cell := range row.Cells {
			out.WriteString("<td>")
			for i, par := range cell.Paragraphs {
				if i > 0 {
					out.WriteString("<br/>")
				}
				for _, r := range par.Runs {
					writeRun(out, r)
				}
			}
			out.WriteString("</td>")
		}
		out.WriteString("</tr>\n")
	}
	out.WriteString("</table>\n")
}

func wrapHTML(body string) string {
	var out strings.Builder
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n<style>\n")
	out.WriteString(printStylesheet)
	out.WriteString("\n</style>\n</head>\n<body>\n")
	out.WriteString(body)
	out.WriteString("</body>\n</html>\n")
	return out.String()
}
