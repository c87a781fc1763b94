package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/neuroathlete-api/internal/engine"
	"github.com/noah-isme/neuroathlete-api/internal/models"
	"github.com/noah-isme/neuroathlete-api/pkg/export"
	"github.com/noah-isme/neuroathlete-api/pkg/storage"
)

type sessionHistorySource interface {
	ListAll(ctx context.Context) ([]models.TestSession, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration, now time.Time) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Location  *time.Location
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	Rows         int
	ExpiresAt    time.Time
}

// ExportService renders the session history and stores the file behind a signed link.
type ExportService struct {
	sessions sessionHistorySource
	catalog  engine.Catalog
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
	now      func() time.Time
}

var sessionColumns = []export.Column{
	{Key: "date", Label: "Date", Width: 1.6},
	{Key: "test", Label: "Test", Width: 1.6},
	{Key: "category", Label: "Category", Width: 1},
	{Key: "difficulty", Label: "Difficulty", Width: 1},
	{Key: "time_of_day", Label: "Time of day", Width: 1},
	{Key: "reaction_ms", Label: "Reaction (ms)", Width: 1},
	{Key: "accuracy", Label: "Accuracy (%)", Width: 1},
	{Key: "correct", Label: "Correct", Width: 0.8},
	{Key: "incorrect", Label: "Incorrect", Width: 0.8},
	{Key: "missed", Label: "Missed", Width: 0.8},
	{Key: "consistency", Label: "Consistency", Width: 1},
	{Key: "load", Label: "Cognitive load", Width: 1},
	{Key: "notes", Label: "Notes", Width: 2},
}

// NewExportService constructs an ExportService.
func NewExportService(sessions sessionHistorySource, catalog engine.Catalog, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		sessions: sessions,
		catalog:  catalog,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Generate renders the session history for a job and stores the result.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}
	dataset := s.buildDataset(sessions, deref(job.TestID))

	var payload []byte
	switch job.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, s.document(job, len(dataset.Rows)))
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Debug("session history exported", zap.String("job_id", job.ID), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/reports/download?token=%s", prefix, url.QueryEscape(token)),
		Format:       job.Format,
		Rows:         len(dataset.Rows),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (storage.DownloadClaims, error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl, s.now())
}

func (s *ExportService) buildDataset(sessions []models.TestSession, testID string) export.Dataset {
	rows := make([]map[string]string, 0, len(sessions))
	for _, session := range sessions {
		if testID != "" && session.TestID != testID {
			continue
		}
		name, category := session.TestID, ""
		if test, ok := s.catalog.Test(session.TestID); ok {
			name, category = test.Name, string(test.Category)
		}
		r := session.Results
		rows = append(rows, map[string]string{
			"date":        session.StartTime.In(s.cfg.Location).Format("2006-01-02 15:04"),
			"test":        name,
			"category":    category,
			"difficulty":  string(session.Difficulty),
			"time_of_day": string(session.Conditions.TimeOfDay),
			"reaction_ms": formatOptional(r.ReactionTimeMs, 0),
			"accuracy":    formatOptional(r.Accuracy, 1),
			"correct":     strconv.Itoa(r.CorrectResponses),
			"incorrect":   strconv.Itoa(r.IncorrectResponses),
			"missed":      strconv.Itoa(r.MissedResponses),
			"consistency": formatOptional(r.ConsistencyScore, 1),
			"load":        strconv.FormatFloat(engine.CognitiveLoad(r), 'f', 1, 64),
			"notes":       deref(session.Notes),
		})
	}
	return export.Dataset{Columns: sessionColumns, Rows: rows}
}

func (s *ExportService) document(job *models.ReportJob, rows int) export.Document {
	title := "Session History"
	if job.TestID != nil {
		if test, ok := s.catalog.Test(*job.TestID); ok {
			title = fmt.Sprintf("Session History: %s", test.Name)
		}
	}
	return export.Document{
		Title:    title,
		Subtitle: fmt.Sprintf("%d sessions, generated %s", rows, s.now().In(s.cfg.Location).Format("2006-01-02 15:04 MST")),
	}
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	scope := "all"
	if job.TestID != nil {
		scope = sanitizeFilename(*job.TestID)
	}
	return fmt.Sprintf("sessions_%s_%s.%s", scope, timestamp, job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatOptional(v *float64, precision int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}
