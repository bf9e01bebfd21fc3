package dto

import "time"

// ErrorResponse is the structured body returned on any failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// UploadResponse is returned after a prescription has been processed and
// stored. It includes the full record, raw OCR text included, so the caller
// can eyeball what the extractor worked with.
type UploadResponse struct {
	Message       string             `json:"message"`
	PatientID     string             `json:"patient_id"`
	ExtractedData PrescriptionRecord `json:"extracted_data"`
}

// PatientResponse is the retrieval shape. Raw OCR text is kept server-side
// and not resurfaced here.
type PatientResponse struct {
	PatientID   string    `json:"patient_id"`
	Name        *string   `json:"name"`
	Age         *string   `json:"age"`
	Gender      *string   `json:"gender"`
	VisitDate   *Date     `json:"visit_date"`
	DoctorNotes *string   `json:"doctor_notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToPatientResponse strips the record down to the fields retrieval exposes.
func ToPatientResponse(rec *PrescriptionRecord) *PatientResponse {
	return &PatientResponse{
		PatientID:   rec.PatientID,
		Name:        rec.Name,
		Age:         rec.Age,
		Gender:      rec.Gender,
		VisitDate:   rec.VisitDate,
		DoctorNotes: rec.DoctorNotes,
		CreatedAt:   rec.CreatedAt,
	}
}
