package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rxscan/prescription-ocr/dto"
	"github.com/rxscan/prescription-ocr/repository"
	"github.com/rxscan/prescription-ocr/utils"
)

var (
	ErrEmptyFile           = errors.New("uploaded file is empty")
	ErrFileTooLarge        = errors.New("uploaded file exceeds the size limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrInvalidPatientID    = errors.New("patient id is not a valid identifier")
)

// minEmbeddedTextLen decides when a PDF counts as scanned: below this much
// embedded text the page images go through OCR instead.
const minEmbeddedTextLen = 20

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".pdf":  true,
}

// TextExtractor is the OCR engine contract the service depends on.
type TextExtractor interface {
	ExtractText(data []byte, ext string) (string, error)
	ExtractTextFromFile(filePath string) (string, error)
}

// PrescriptionService orchestrates the submission and retrieval flows. Each
// request is independent; the service holds no mutable state of its own.
type PrescriptionService struct {
	ocr            TextExtractor
	pdfProcessor   PDFProcessor
	repo           repository.PrescriptionRepository
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewPrescriptionService(
	ocr TextExtractor,
	pdfProcessor PDFProcessor,
	repo repository.PrescriptionRepository,
	maxUploadBytes int64,
	logger zerolog.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		ocr:            ocr,
		pdfProcessor:   pdfProcessor,
		repo:           repo,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Submit validates the upload, extracts raw text, applies field extraction,
// and stores the assembled record under a freshly generated patient ID.
// Field extraction cannot fail; an OCR or storage failure aborts the flow
// and no record is persisted.
func (s *PrescriptionService) Submit(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.PrescriptionRecord, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, fileHeader.Size, s.maxUploadBytes)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	rawText, err := s.extractRawText(data, ext)
	if err != nil {
		return nil, err
	}

	fields := utils.ParsePrescription(rawText)

	rec := &dto.PrescriptionRecord{
		PatientID:   uuid.NewString(),
		Name:        fields.Name,
		Age:         fields.Age,
		Gender:      fields.Gender,
		VisitDate:   fields.VisitDate,
		DoctorNotes: fields.DoctorNotes,
		RawOCRText:  rawText,
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store prescription: %w", err)
	}

	s.logger.Info().
		Str("patient_id", rec.PatientID).
		Str("filename", fileHeader.Filename).
		Int("raw_text_len", len(rawText)).
		Msg("prescription stored")

	return rec, nil
}

// GetByPatientID validates the identifier shape before touching storage.
func (s *PrescriptionService) GetByPatientID(ctx context.Context, patientID string) (*dto.PrescriptionRecord, error) {
	id, err := uuid.Parse(patientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPatientID, patientID)
	}
	return s.repo.GetByPatientID(ctx, id)
}

// extractRawText produces the raw text blob for a prescription upload.
// Images go straight through OCR. PDFs try embedded text first and fall back
// to OCR over extracted page images when the document looks scanned.
func (s *PrescriptionService) extractRawText(data []byte, ext string) (string, error) {
	if ext != ".pdf" {
		text, err := s.ocr.ExtractText(data, ext)
		if err != nil {
			return "", fmt.Errorf("image OCR failed: %w", err)
		}
		return text, nil
	}

	text, err := s.pdfProcessor.ExtractText(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("pdf text extraction failed, trying page images")
	}
	if len(strings.TrimSpace(text)) >= minEmbeddedTextLen {
		return text, nil
	}

	images, err := s.pdfProcessor.ExtractImages(data)
	if err != nil || len(images) == 0 {
		if len(strings.TrimSpace(text)) > 0 {
			return text, nil
		}
		return "", fmt.Errorf("no text could be extracted from pdf: %v", err)
	}

	var combined strings.Builder
	var pageCount int
	for _, img := range images {
		tempImg, err := saveImageToTempFile(img)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to stage pdf page image for OCR")
			continue
		}

		pageText, ocrErr := s.ocr.ExtractTextFromFile(tempImg)
		os.Remove(tempImg)
		if ocrErr != nil {
			s.logger.Warn().Err(ocrErr).Msg("OCR failed for pdf page")
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
		pageCount++
	}

	if pageCount == 0 {
		if len(strings.TrimSpace(text)) > 0 {
			return text, nil
		}
		return "", errors.New("OCR produced no text for any pdf page")
	}

	return combined.String(), nil
}

// saveImageToTempFile stages an image.Image as a temporary PNG for OCR.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "prescription-page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	return tempFile.Name(), nil
}
