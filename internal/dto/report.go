package dto

import (
	"time"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// ReportRequest captures POST /reports payload.
type ReportRequest struct {
	Format models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	TestID *string             `json:"test_id,omitempty" validate:"omitempty,min=1"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID         string              `json:"id"`
	Format     models.ReportFormat `json:"format"`
	Status     models.ReportStatus `json:"status"`
	Progress   int                 `json:"progress"`
	ResultURL  *string             `json:"result_url,omitempty"`
	Error      *string             `json:"error,omitempty"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}
