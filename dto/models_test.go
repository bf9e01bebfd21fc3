package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2023-05-12"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "2023-05-12", back.String())
}

func TestRecordAbsentFieldsMarshalAsNull(t *testing.T) {
	name := "Jane Doe"
	rec := PrescriptionRecord{
		PatientID:  "123e4567-e89b-12d3-a456-426614174000",
		Name:       &name,
		RawOCRText: "Patient Name: Jane Doe",
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "Jane Doe", m["name"])
	assert.Nil(t, m["age"])
	assert.Nil(t, m["visit_date"])
	assert.Nil(t, m["doctor_notes"])
}

func TestToPatientResponseDropsRawText(t *testing.T) {
	rec := &PrescriptionRecord{
		PatientID:  "123e4567-e89b-12d3-a456-426614174000",
		RawOCRText: "should stay server-side",
	}

	b, err := json.Marshal(ToPatientResponse(rec))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "raw_ocr_text")
}
