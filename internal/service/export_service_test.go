package service

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/neuroathlete-api/internal/engine"
	"github.com/noah-isme/neuroathlete-api/internal/models"
	"github.com/noah-isme/neuroathlete-api/pkg/export"
	"github.com/noah-isme/neuroathlete-api/pkg/storage"
)

type historyStub struct {
	sessions []models.TestSession
}

func (h historyStub) ListAll(ctx context.Context) ([]models.TestSession, error) {
	return h.sessions, nil
}

func ptrFloat(v float64) *float64 {
	return &v
}

func exportHistory() []models.TestSession {
	start := time.Date(2024, 3, 14, 8, 30, 0, 0, time.UTC)
	note := "after practice"
	return []models.TestSession{
		{
			ID:         "s-1",
			TestID:     "lightning-reaction",
			Difficulty: models.DifficultyBeginner,
			StartTime:  start,
			EndTime:    start.Add(time.Minute),
			Results: models.TestResults{
				ReactionTimeMs:   ptrFloat(245),
				Accuracy:         ptrFloat(90),
				CorrectResponses: 45,
				MissedResponses:  5,
				ConsistencyScore: ptrFloat(88.4),
			},
			Conditions: models.SessionConditions{TimeOfDay: models.TimeMorning},
			Notes:      &note,
		},
		{
			ID:         "s-2",
			TestID:     "laser-focus",
			Difficulty: models.DifficultyIntermediate,
			StartTime:  start.Add(time.Hour),
			EndTime:    start.Add(time.Hour + time.Minute),
			Results:    models.TestResults{CorrectResponses: 20, IncorrectResponses: 5},
		},
	}
}

func newExportServiceForTest(t *testing.T, sessions []models.TestSession) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour, Location: time.UTC}
	svc := NewExportService(historyStub{sessions: sessions}, engine.DefaultCatalog(), store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func readCSV(t *testing.T, svc *ExportService, relPath string) [][]string {
	t.Helper()
	file, err := svc.Open(relPath)
	require.NoError(t, err)
	defer file.Close()
	raw, err := io.ReadAll(file)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportHistory())
	job := &models.ReportJob{ID: "job-1", Format: models.ReportFormatCSV}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/reports/download?token="))
	assert.Equal(t, result.Token, extractToken(result.URL))
	assert.True(t, strings.HasPrefix(result.RelativePath, "sessions_all_"))

	records := readCSV(t, svc, result.RelativePath)
	require.Len(t, records, 3)
	assert.Equal(t, "Date", records[0][0])
	assert.Equal(t, []string{"2024-03-14 08:30", "Lightning Reaction", "reaction", "beginner", "morning", "245", "90.0", "45", "0", "5", "88.4", "100.0", "after practice"}, records[1])

	claims, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", claims.ReportID)
	assert.Equal(t, result.RelativePath, claims.Path)
}

func TestExportServiceFiltersByTest(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportHistory())
	testID := "laser-focus"

	result, err := svc.Generate(context.Background(), &models.ReportJob{ID: "job-2", Format: models.ReportFormatCSV, TestID: &testID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
	assert.True(t, strings.HasPrefix(result.RelativePath, "sessions_laser-focus_"))

	records := readCSV(t, svc, result.RelativePath)
	require.Len(t, records, 2)
	assert.Equal(t, "attention", records[1][2])
	assert.Empty(t, records[1][5])
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportHistory())

	result, err := svc.Generate(context.Background(), &models.ReportJob{ID: "job-3", Format: models.ReportFormatPDF})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".pdf"))

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	header := make([]byte, 4)
	_, err = io.ReadFull(file, header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t, nil)

	_, err := svc.Generate(context.Background(), &models.ReportJob{ID: "job-4", Format: "xlsx"})
	require.Error(t, err)
}

func TestExportServiceCleanup(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportHistory())
	result, err := svc.Generate(context.Background(), &models.ReportJob{ID: "job-5", Format: models.ReportFormatCSV})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err := svc.Cleanup(0)
	require.NoError(t, err)
	assert.Contains(t, removed, result.RelativePath)

	_, err = svc.Open(result.RelativePath)
	require.Error(t, err)
}
