package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrescriptionTypical(t *testing.T) {
	text := `Dr. A. Verma, MBBS
City OPD Clinic
Patient Name: Jane Doe
Age: 45 years   Sex: Female
Date: 12/05/2023

Rx Paracetamol 500mg twice daily for fever
`

	fields := ParsePrescription(text)

	require.NotNil(t, fields.Name)
	assert.Equal(t, "Jane Doe", *fields.Name)

	require.NotNil(t, fields.Age)
	assert.Equal(t, "45 years", *fields.Age)

	require.NotNil(t, fields.Gender)
	assert.Equal(t, "Female", *fields.Gender)

	require.NotNil(t, fields.VisitDate)
	assert.Equal(t, "2023-05-12", fields.VisitDate.String())

	require.NotNil(t, fields.DoctorNotes)
	assert.Equal(t, "Paracetamol 500mg twice daily for fever", *fields.DoctorNotes)
}

func TestParsePrescriptionNoLabels(t *testing.T) {
	fields := ParsePrescription("lorem ipsum dolor sit amet consectetur adipiscing elit")

	assert.Nil(t, fields.Name)
	assert.Nil(t, fields.Age)
	assert.Nil(t, fields.Gender)
	assert.Nil(t, fields.VisitDate)
	assert.Nil(t, fields.DoctorNotes)
}

func TestParsePrescriptionFieldsIndependent(t *testing.T) {
	fields := ParsePrescription("Sex: M")

	require.NotNil(t, fields.Gender)
	assert.Equal(t, "M", *fields.Gender)
	assert.Nil(t, fields.Name)
	assert.Nil(t, fields.Age)
	assert.Nil(t, fields.VisitDate)
	assert.Nil(t, fields.DoctorNotes)
}

func TestExtractAgePreservesUnits(t *testing.T) {
	cases := map[string]string{
		"Age: 6 months":          "6 months",
		"Age: 45":                "45",
		"Age - 12 yrs":           "12 yrs",
		"Patient is 3 years old": "3 years old",
	}

	for input, want := range cases {
		got := extractAge(input)
		require.NotNil(t, got, "input %q", input)
		assert.Equal(t, want, *got, "input %q", input)
	}

	assert.Nil(t, extractAge("no age mentioned anywhere"))
}

func TestExtractVisitDateNormalizes(t *testing.T) {
	cases := []string{
		"Visit on 12/05/2023 at the clinic",
		"Visit on 2023-05-12 at the clinic",
		"Visit on 12 May 2023 at the clinic",
	}

	for _, input := range cases {
		d := extractVisitDate(input)
		require.NotNil(t, d, "input %q", input)
		assert.Equal(t, "2023-05-12", d.String(), "input %q", input)
	}
}

func TestExtractVisitDateInvalidCalendar(t *testing.T) {
	assert.Nil(t, extractVisitDate("Date: 32/13/2023"))
	assert.Nil(t, extractVisitDate("no date here"))
}

func TestExtractVisitDateFirstByPosition(t *testing.T) {
	d := extractVisitDate("Date: 01/02/2023 ... follow up on 15/03/2023")
	require.NotNil(t, d)
	assert.Equal(t, "2023-02-01", d.String())
}

func TestExtractVisitDateSkipsInvalidCandidate(t *testing.T) {
	// The garbled token comes first but fails calendar validation; the later
	// valid one should still be picked up.
	d := extractVisitDate("Ref 99/99/2023, seen on 05/06/2023")
	require.NotNil(t, d)
	assert.Equal(t, "2023-06-05", d.String())
}

func TestExtractLabeledFieldCutsAtNextLabel(t *testing.T) {
	name := extractLabeledField("Patient Name: Jane Doe  Age: 45", nameLabels)
	require.NotNil(t, name)
	assert.Equal(t, "Jane Doe", *name)

	name = extractLabeledField("Name: John Smith Gender: Male", nameLabels)
	require.NotNil(t, name)
	assert.Equal(t, "John Smith", *name)
}

func TestExtractLabeledFieldBlankIsAbsent(t *testing.T) {
	assert.Nil(t, extractLabeledField("Patient Name:   ", nameLabels))
	assert.Nil(t, extractLabeledField("Gender:", genderLabels))
}

func TestExtractNotesLastKeywordWins(t *testing.T) {
	text := `Diagnosis: Viral fever
Rx: Paracetamol 500mg after meals
Doctor: Dr. Verma`

	notes := extractNotes(text)
	require.NotNil(t, notes)
	assert.Equal(t, "Paracetamol 500mg after meals", *notes)
}

func TestExtractNotesStopsAtBlankLine(t *testing.T) {
	text := "Advice: rest and fluids for three days\n\nNext visit after one week"

	notes := extractNotes(text)
	require.NotNil(t, notes)
	assert.Equal(t, "rest and fluids for three days", *notes)
}
