package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/neuroathlete-api/internal/dto"
	"github.com/noah-isme/neuroathlete-api/internal/engine"
	"github.com/noah-isme/neuroathlete-api/internal/models"
	"github.com/noah-isme/neuroathlete-api/internal/repository"
	appErrors "github.com/noah-isme/neuroathlete-api/pkg/errors"
	"github.com/noah-isme/neuroathlete-api/pkg/jobs"
)

type reportRepoStub struct {
	mu   sync.Mutex
	jobs map[string]*models.ReportJob
}

func newReportRepoStub() *reportRepoStub {
	return &reportRepoStub{jobs: map[string]*models.ReportJob{}}
}

func (r *reportRepoStub) Create(ctx context.Context, job *models.ReportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *reportRepoStub) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (r *reportRepoStub) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *reportRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var queued []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (r *reportRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var finished []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			finished = append(finished, *job)
		}
	}
	return finished, nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newReportServiceForTest(t *testing.T) (*ReportService, *reportRepoStub, *queueStub, *ExportService) {
	t.Helper()
	repo := newReportRepoStub()
	queue := &queueStub{}
	exportSvc, _ := newExportServiceForTest(t, exportHistory())
	service := NewReportService(repo, queue, exportSvc, engine.DefaultCatalog(), nil, zap.NewNop(), ReportServiceConfig{
		ResultTTL:       time.Hour,
		CleanupInterval: time.Hour,
	})
	return service, repo, queue, exportSvc
}

func TestReportServiceCreateJob(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	testID := "lightning-reaction"

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{Format: models.ReportFormatCSV, TestID: &testID})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, reportJobType, queue.jobs[0].Type)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Contains(t, repo.jobs, resp.ID)
	assert.Equal(t, testID, *repo.jobs[resp.ID].TestID)
}

func TestReportServiceCreateJobValidation(t *testing.T) {
	svc, _, queue, _ := newReportServiceForTest(t)
	unknown := "juggling"

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{Format: "xlsx"})
	requireAppErrorCode(t, err, appErrors.ErrValidation.Code)

	_, err = svc.CreateJob(context.Background(), dto.ReportRequest{Format: models.ReportFormatPDF, TestID: &unknown})
	requireAppErrorCode(t, err, appErrors.ErrValidation.Code)
	assert.Empty(t, queue.jobs)
}

func TestReportServiceCreateJobQueueFull(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	queue.err = jobs.ErrQueueFull

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{Format: models.ReportFormatCSV})
	requireAppErrorCode(t, err, appErrors.ErrInternal.Code)
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
		assert.NotNil(t, job.FinishedAt)
	}
}

func TestReportServiceGetStatus(t *testing.T) {
	svc, repo, _, _ := newReportServiceForTest(t)
	msg := ""
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Format: models.ReportFormatCSV, Status: models.ReportStatusFinished, Progress: 100, ErrorMessage: &msg}

	resp, err := svc.GetStatus(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, resp.Status)
	assert.Equal(t, 100, resp.Progress)
	assert.Nil(t, resp.Error)

	_, err = svc.GetStatus(context.Background(), "missing")
	requireAppErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestReportServiceResolveDownload(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	job := &models.ReportJob{ID: "job-download", Format: models.ReportFormatCSV, Status: models.ReportStatusFinished, Progress: 100}
	repo.jobs[job.ID] = job
	result, err := exportSvc.Generate(context.Background(), job)
	require.NoError(t, err)
	job.ResultURL = &result.URL
	now := time.Now()
	job.FinishedAt = &now

	download, err := svc.ResolveDownload(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(result.RelativePath), download.Filename)
	assert.Equal(t, models.ReportFormatCSV, download.Format)
	download.File.Close()

	_, err = svc.ResolveDownload(context.Background(), "garbage")
	requireAppErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestReportServiceResolveDownloadNotReady(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	job := &models.ReportJob{ID: "job-pending", Format: models.ReportFormatCSV, Status: models.ReportStatusProcessing}
	repo.jobs[job.ID] = job
	result, err := exportSvc.Generate(context.Background(), job)
	require.NoError(t, err)
	job.ResultURL = &result.URL

	_, err = svc.ResolveDownload(context.Background(), result.Token)
	requireAppErrorCode(t, err, appErrors.ErrForbidden.Code)
}

func TestReportServiceRecoverPendingJobs(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Status: models.ReportStatusQueued}
	repo.jobs["job-2"] = &models.ReportJob{ID: "job-2", Status: models.ReportStatusFinished}

	svc.RecoverPendingJobs(context.Background())
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "job-1", queue.jobs[0].ID)
}

func TestReportServiceCleanupExpired(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	job := &models.ReportJob{ID: "job-old", Format: models.ReportFormatCSV, Status: models.ReportStatusFinished}
	repo.jobs[job.ID] = job
	result, err := exportSvc.Generate(context.Background(), job)
	require.NoError(t, err)
	finished := time.Now().Add(-2 * time.Hour)
	job.ResultURL = &result.URL
	job.FinishedAt = &finished

	svc.cleanupExpired(context.Background())

	_, err = exportSvc.Open(result.RelativePath)
	require.Error(t, err)
}

type exportStub struct {
	result *ExportResult
	err    error
}

func (e exportStub) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func TestReportWorkerHandleSuccess(t *testing.T) {
	repo := newReportRepoStub()
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Format: models.ReportFormatCSV, Status: models.ReportStatusQueued}
	exporter := exportStub{result: &ExportResult{URL: "/api/v1/reports/download?token=abc"}}
	worker := NewReportWorker(repo, exporter, NewMetricsService(), zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, repo.jobs["job-1"].Status)
	assert.Equal(t, 100, repo.jobs["job-1"].Progress)
	require.NotNil(t, repo.jobs["job-1"].ResultURL)
	assert.Equal(t, "abc", extractToken(*repo.jobs["job-1"].ResultURL))
}

func TestReportWorkerHandleFailureRequeues(t *testing.T) {
	repo := newReportRepoStub()
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Format: models.ReportFormatCSV, Status: models.ReportStatusQueued}
	worker := NewReportWorker(repo, exportStub{err: errors.New("boom")}, nil, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1"})
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusQueued, repo.jobs["job-1"].Status)
	require.NotNil(t, repo.jobs["job-1"].ErrorMessage)
	assert.Equal(t, "boom", *repo.jobs["job-1"].ErrorMessage)
}

func TestReportWorkerExhaustedMarksFailed(t *testing.T) {
	repo := newReportRepoStub()
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Format: models.ReportFormatCSV, Status: models.ReportStatusQueued}
	worker := NewReportWorker(repo, exportStub{}, nil, zap.NewNop())

	worker.Exhausted(context.Background(), jobs.Job{ID: "job-1", Attempt: 4}, errors.New("boom"))
	assert.Equal(t, models.ReportStatusFailed, repo.jobs["job-1"].Status)
	assert.NotNil(t, repo.jobs["job-1"].FinishedAt)
}

func TestReportWorkerWithQueueRetriesUntilExhausted(t *testing.T) {
	repo := newReportRepoStub()
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Format: models.ReportFormatCSV, Status: models.ReportStatusQueued}
	worker := NewReportWorker(repo, exportStub{err: errors.New("boom")}, nil, zap.NewNop())

	done := make(chan struct{})
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		OnExhausted: func(ctx context.Context, job jobs.Job, err error) {
			worker.Exhausted(ctx, job, err)
			close(done)
		},
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(jobs.Job{ID: "job-1", Type: reportJobType}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not exhausted")
	}
	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFailed, job.Status)
	assert.Equal(t, uint64(1), queue.Stats().Exhausted)
}
