package dto

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date without a time component. It marshals as plain
// YYYY-MM-DD, which is also the canonical form the field extractor produces.
type Date struct {
	time.Time
}

func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// ExtractedFields holds the best-effort values the parser pulled out of raw
// OCR text. A nil pointer means the field was not found, which is a normal
// outcome and distinct from an empty value.
type ExtractedFields struct {
	Name        *string
	Age         *string
	Gender      *string
	VisitDate   *Date
	DoctorNotes *string
}

// PrescriptionRecord is the stored shape of one processed prescription.
// All fields are set at submission time and never updated.
type PrescriptionRecord struct {
	PatientID   string    `json:"patient_id"`
	Name        *string   `json:"name"`
	Age         *string   `json:"age"`
	Gender      *string   `json:"gender"`
	VisitDate   *Date     `json:"visit_date"`
	DoctorNotes *string   `json:"doctor_notes"`
	RawOCRText  string    `json:"raw_ocr_text"`
	CreatedAt   time.Time `json:"created_at"`
}
