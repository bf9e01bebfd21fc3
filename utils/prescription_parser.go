package utils

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rxscan/prescription-ocr/dto"
)

// Label synonym tables. Extraction is driven by these so new synonyms can be
// added without touching control flow. Order matters: the first label that
// matches wins, so more specific labels come first.
var (
	nameLabels   = []string{"patient name", "name", "patient"}
	genderLabels = []string{"gender", "sex"}
	notesLabels  = []string{"rx", "diagnosis", "dx", "notes", "advice", "medication", "prescription"}
)

// valueCutoff trims a captured value at the point where the same line starts
// a different labeled field, e.g. "Jane Doe   Age: 45".
var valueCutoff = regexp.MustCompile(`\s{2,}|[A-Z][a-z]+:`)

// notesCutoff ends the notes section at the next blank line or a signature
// block.
var notesCutoff = regexp.MustCompile(`\n\s*\n|Signature:|Doctor:`)

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bage\s*[:\-]?\s*(\d{1,3}(?:\.\d)?(?:\s*(?:years?|yrs?|y/?o|months?|weeks?|days?))?(?:\s*old)?)`),
	regexp.MustCompile(`(?i)\b(\d{1,3}\s*(?:years?|yrs?)(?:\s*old)?)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,3}\s*y/?o)\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2}\s*months?(?:\s*old)?)\b`),
}

// Candidate date shapes, broad on purpose; calendar validity is enforced by
// time.Parse afterwards.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+\d{2,4}`),
	regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{2,4}`),
}

// Day-first layouts are tried before month-first ones; OPD prescriptions in
// the source data use DD/MM/YYYY ordering.
var dateLayouts = []string{
	"02/01/2006", "02-01-2006",
	"2/1/2006", "2-1-2006",
	"02/01/06", "02-01-06",
	"2/1/06", "2-1-06",
	"2006-01-02", "2006/01/02",
	"2 Jan 2006", "2 January 2006",
	"2 Jan 06", "2 January 06",
	"Jan 2, 2006", "January 2, 2006",
	"Jan 2 2006", "January 2 2006",
	"01/02/2006", "01-02-2006",
	"1/2/2006", "1-2-2006",
}

// ParsePrescription extracts structured fields from prescription OCR text.
// Every field is independent and best-effort: noisy or adversarial input
// yields nil fields, never an error.
func ParsePrescription(ocrText string) dto.ExtractedFields {
	return dto.ExtractedFields{
		Name:        extractLabeledField(ocrText, nameLabels),
		Age:         extractAge(ocrText),
		Gender:      extractLabeledField(ocrText, genderLabels),
		VisitDate:   extractVisitDate(ocrText),
		DoctorNotes: extractNotes(ocrText),
	}
}

// extractLabeledField searches for "<label>: <value>" case-insensitively and
// returns the value from the first label that matches.
func extractLabeledField(text string, labels []string) *string {
	for _, label := range labels {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:\s*(.*)`)
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		value := valueCutoff.Split(strings.TrimSpace(m[1]), 2)[0]
		if v := cleanValue(value); v != nil {
			return v
		}
	}
	return nil
}

// extractAge returns the age as free text so unit phrases like "6 months"
// survive intact.
func extractAge(text string) *string {
	for _, re := range agePatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			value := valueCutoff.Split(strings.TrimSpace(m[1]), 2)[0]
			if v := cleanValue(value); v != nil {
				return v
			}
		}
	}
	return nil
}

// extractVisitDate finds the earliest date-looking token in the text and
// normalizes it. Precedence among multiple candidates is first match by
// position. Tokens that fail calendar validation (month 13, day 32) are
// skipped.
func extractVisitDate(text string) *dto.Date {
	type candidate struct {
		pos int
		str string
	}
	var candidates []candidate
	for _, re := range datePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, candidate{pos: loc[0], str: text[loc[0]:loc[1]]})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].pos < candidates[j].pos })

	for _, c := range candidates {
		if d := parseDate(c.str); d != nil {
			return d
		}
	}
	return nil
}

func parseDate(s string) *dto.Date {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dto.NewDate(t)
		}
	}
	return nil
}

// extractNotes pulls the doctor's notes section. The last occurring notes
// keyword wins, since Rx/diagnosis blocks sit toward the bottom of a
// prescription; the section runs until a blank line or signature block.
func extractNotes(text string) *string {
	start := -1
	for _, label := range notesLabels {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `[\s:]+`)
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[1] > start {
				start = loc[1]
			}
		}
	}
	if start == -1 {
		return nil
	}

	section := notesCutoff.Split(strings.TrimSpace(text[start:]), 2)[0]
	return cleanValue(section)
}

// cleanValue trims leading punctuation and surrounding whitespace, mapping
// blank captures to absent.
func cleanValue(s string) *string {
	s = strings.TrimLeft(s, ":;-.,| \t")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
