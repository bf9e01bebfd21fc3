package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rxscan/prescription-ocr/dto"
	"github.com/rxscan/prescription-ocr/repository"
	"github.com/rxscan/prescription-ocr/service"
)

// PrescriptionService is the contract the handler depends on.
type PrescriptionService interface {
	Submit(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.PrescriptionRecord, error)
	GetByPatientID(ctx context.Context, patientID string) (*dto.PrescriptionRecord, error)
}

type PrescriptionHandler struct {
	prescriptionService PrescriptionService
	logger              zerolog.Logger
}

func NewPrescriptionHandler(prescriptionService PrescriptionService, logger zerolog.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionService: prescriptionService,
		logger:              logger,
	}
}

// Upload handles POST /prescriptions. Expects a single multipart file under
// "file".
func (h *PrescriptionHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "BAD_REQUEST", "a prescription file is required", err)
		return
	}

	h.logger.Info().Str("filename", fileHeader.Filename).Int64("size", fileHeader.Size).Msg("received prescription upload")

	rec, err := h.prescriptionService.Submit(c.Request.Context(), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyFile),
			errors.Is(err, service.ErrFileTooLarge),
			errors.Is(err, service.ErrUnsupportedFileType):
			h.sendError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), err)
		default:
			h.sendError(c, http.StatusInternalServerError, "PROCESSING_FAILED", "failed to process prescription", err)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.UploadResponse{
		Message:       "Prescription uploaded and processed successfully.",
		PatientID:     rec.PatientID,
		ExtractedData: *rec,
	})
}

// GetPatient handles GET /prescriptions/:patient_id.
func (h *PrescriptionHandler) GetPatient(c *gin.Context) {
	patientID := c.Param("patient_id")

	rec, err := h.prescriptionService.GetByPatientID(c.Request.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPatientID):
			h.sendError(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), err)
		case errors.Is(err, repository.ErrNotFound):
			h.sendError(c, http.StatusNotFound, "NOT_FOUND", "patient data not found", nil)
		default:
			h.sendError(c, http.StatusInternalServerError, "STORAGE_FAILED", "failed to retrieve prescription", err)
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPatientResponse(rec))
}

func (h *PrescriptionHandler) sendError(c *gin.Context, statusCode int, code, message string, err error) {
	if err != nil {
		h.logger.Error().Err(err).Int("status", statusCode).Msg(message)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}
