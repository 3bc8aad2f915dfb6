// internal/template/repair.go
package template

import (
	"regexp"
	"strings"
)

// TokenRange is a matched delimiter pair with the enclosed raw content.
// Open and Close index the first byte of each delimiter in the source text.
type TokenRange struct {
	Open    int
	Close   int
	Content string
}

// repairState is the tokenizer's explicit state. Only one open delimiter is
// ever tracked: a second open while one is pending discards the earlier one.
// This is a repair heuristic for duplicated and partially deleted edits, not
// a general parser, so there is deliberately no delimiter stack.
type repairState int

const (
	stateScanning repairState = iota
	stateOpen
)

// RepairResult carries the normalized text plus counters describing what the
// heuristic had to drop. A result with Clean() == true means the input was
// already well formed and came back byte-identical.
type RepairResult struct {
	Text          string
	Placeholders  []TokenRange
	SpuriousOpens int
	OrphanCloses  int
	StrippedTags  int
	Unclosed      bool
}

// Clean reports whether no repair was necessary.
func (r RepairResult) Clean() bool {
	return r.SpuriousOpens == 0 && r.OrphanCloses == 0 && r.StrippedTags == 0 && !r.Unclosed
}

var markupTag = regexp.MustCompile(`<[^>]+>`)

// Repairer normalizes malformed delimiter pairs in template markup. Word
// processors split and duplicate delimiters when users edit placeholders in
// place; the repairer reduces every delimited span to
// open + innerTextOnly + close with embedded markup tags stripped.
type Repairer struct {
	open  string
	close string
}

// NewRepairer creates a Repairer for one delimiter pair.
func NewRepairer(open, close string) *Repairer {
	return &Repairer{open: open, close: close}
}

// Repair runs a single left-to-right scan over text.
//
// Transition table (state × token):
//
//	Scanning × open   → flush text since last flush point, mark open, go Open
//	Open     × open   → earlier open was spurious: flush the content between
//	                    it (exclusive of the delimiter) and the new open,
//	                    re-mark, stay Open
//	Open     × close  → emit open + stripTags(inner) + close, go Scanning
//	Scanning × close  → orphan: flush text up to it, skip the delimiter
//
// At end of input the remainder after the last flush point is appended
// verbatim, which keeps an unclosed open delimiter's literal text in place.
func (r *Repairer) Repair(text string) RepairResult {
	var out strings.Builder
	out.Grow(len(text))

	result := RepairResult{}
	state := stateScanning
	openIdx := 0  // position of the pending open delimiter, valid in stateOpen
	lastIdx := 0  // flush point: everything before it is already written

	pos := 0
	for {
		nextOpen := indexFrom(text, r.open, pos)
		nextClose := indexFrom(text, r.close, pos)
		if nextOpen < 0 && nextClose < 0 {
			break
		}

		if nextOpen >= 0 && (nextClose < 0 || nextOpen < nextClose) {
			// open delimiter
			switch state {
			case stateScanning:
				out.WriteString(text[lastIdx:nextOpen])
			case stateOpen:
				// The earlier open was spurious; keep its trailing content
				// but not the delimiter itself.
				out.WriteString(text[openIdx+len(r.open) : nextOpen])
				result.SpuriousOpens++
			}
			state = stateOpen
			openIdx = nextOpen
			lastIdx = nextOpen
			pos = nextOpen + len(r.open)
			continue
		}

		// close delimiter
		switch state {
		case stateOpen:
			raw := text[openIdx+len(r.open) : nextClose]
			inner := markupTag.ReplaceAllString(raw, "")
			if inner != raw {
				result.StrippedTags++
			}
			result.Placeholders = append(result.Placeholders, TokenRange{
				Open:    out.Len(),
				Close:   out.Len() + len(r.open) + len(inner),
				Content: inner,
			})
			out.WriteString(r.open)
			out.WriteString(inner)
			out.WriteString(r.close)
			state = stateScanning
		case stateScanning:
			out.WriteString(text[lastIdx:nextClose])
			result.OrphanCloses++
		}
		lastIdx = nextClose + len(r.close)
		pos = lastIdx
	}

	out.WriteString(text[lastIdx:])
	result.Unclosed = state == stateOpen
	result.Text = out.String()
	return result
}

// Placeholders scans already-clean text for balanced delimiter pairs.
func (r *Repairer) Placeholders(text string) []TokenRange {
	var tokens []TokenRange
	pos := 0
	for {
		open := indexFrom(text, r.open, pos)
		if open < 0 {
			return tokens
		}
		end := indexFrom(text, r.close, open+len(r.open))
		if end < 0 {
			return tokens
		}
		tokens = append(tokens, TokenRange{
			Open:    open,
			Close:   end,
			Content: text[open+len(r.open) : end],
		})
		pos = end + len(r.close)
	}
}

func indexFrom(s, substr string, from int) int {
	if from >= len(s) {
		return -1
	}
	idx := strings.Index(s[from:], substr)
	if idx < 0 {
		return -1
	}
	return from + idx
}
