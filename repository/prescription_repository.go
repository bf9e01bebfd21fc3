package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rxscan/prescription-ocr/dto"
)

// ErrNotFound indicates no record exists for the given patient identifier.
// A normal outcome on retrieval, not a storage fault.
var ErrNotFound = errors.New("prescription not found")

// PrescriptionRepository persists processed prescriptions. Records are
// write-once: there is no update or delete.
type PrescriptionRepository interface {
	Insert(ctx context.Context, rec *dto.PrescriptionRecord) error
	GetByPatientID(ctx context.Context, patientID uuid.UUID) (*dto.PrescriptionRecord, error)
}

type prescriptionRepoPG struct {
	pool *pgxpool.Pool
}

func NewPrescriptionRepository(pool *pgxpool.Pool) PrescriptionRepository {
	return &prescriptionRepoPG{pool: pool}
}

// Insert writes a new record. created_at is assigned by the database and
// written back into rec.
func (r *prescriptionRepoPG) Insert(ctx context.Context, rec *dto.PrescriptionRecord) error {
	var visitDate *time.Time
	if rec.VisitDate != nil {
		visitDate = &rec.VisitDate.Time
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO prescriptions (patient_id, name, age, gender, visit_date, doctor_notes, raw_ocr_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		rec.PatientID, rec.Name, rec.Age, rec.Gender, visitDate, rec.DoctorNotes, rec.RawOCRText,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepoPG) GetByPatientID(ctx context.Context, patientID uuid.UUID) (*dto.PrescriptionRecord, error) {
	var (
		rec       dto.PrescriptionRecord
		visitDate *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT patient_id, name, age, gender, visit_date, doctor_notes, raw_ocr_text, created_at
		FROM prescriptions WHERE patient_id = $1`,
		patientID,
	).Scan(&rec.PatientID, &rec.Name, &rec.Age, &rec.Gender, &visitDate, &rec.DoctorNotes, &rec.RawOCRText, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query prescription: %w", err)
	}

	if visitDate != nil {
		rec.VisitDate = dto.NewDate(*visitDate)
	}
	return &rec, nil
}
