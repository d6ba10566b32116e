package upload

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dittohq/ditto-go/api"
	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Status is the coordinator's lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading"
	StatusConfirming Status = "confirming"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// State is a snapshot of one upload attempt. Speed (bytes/s) and ETA are
// zero until the transfer is past the reporting threshold; Err is set only
// in StatusFailed - a deliberate cancel is not an error.
type State struct {
	Status        Status
	Progress      int
	BytesUploaded int64
	TotalBytes    int64
	Speed         float64
	ETA           time.Duration
	Err           error
	FileName      string
}

// Target identifies the records an uploaded file belongs to.
type Target struct {
	ApplicationID string
	InterviewID   string
	Assessment    bool // submission_context=assessment
}

const etaThresholdBytes = 1024 * 1024

// Coordinator drives the three-phase upload: negotiate a presigned target,
// transfer the bytes directly to storage with progress reporting, then
// confirm the upload with the backend.
//
// Lifecycle: idle -> uploading -> confirming -> completed, where uploading
// and confirming can end in failed or cancelled. Nothing leaves completed,
// failed or cancelled except Retry and Reset.
type Coordinator struct {
	client       *api.Client
	target       Target
	storage      *http.Client
	logger       zerolog.Logger
	etaThreshold int64
	onProgress   func(Progress)
	onComplete   func(*api.FileRecord)

	lock      sync.Mutex
	state     State
	cancel    context.CancelFunc
	file      *File
	startedAt time.Time
}

// CoordinatorOption defines a function type to modify the Coordinator
// instance.
type CoordinatorOption func(*Coordinator)

// WithStorageClient sets the client used for the presigned PUT. It must not
// carry the API bearer token; the presigned URL is its own authorization.
func WithStorageClient(c *http.Client) CoordinatorOption {
	return func(co *Coordinator) {
		co.storage = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) CoordinatorOption {
	return func(co *Coordinator) {
		co.logger = logger
	}
}

// WithETAThreshold sets the minimum total size for which speed and ETA are
// reported. Estimates on tiny transfers are noise.
func WithETAThreshold(bytes int64) CoordinatorOption {
	return func(co *Coordinator) {
		co.etaThreshold = bytes
	}
}

// WithProgress registers a callback invoked on every transferred chunk.
func WithProgress(fn func(Progress)) CoordinatorOption {
	return func(co *Coordinator) {
		co.onProgress = fn
	}
}

// WithOnComplete registers a callback invoked with the confirmed file record.
func WithOnComplete(fn func(*api.FileRecord)) CoordinatorOption {
	return func(co *Coordinator) {
		co.onComplete = fn
	}
}

// NewCoordinator creates a coordinator uploading on behalf of target.
func NewCoordinator(client *api.Client, target Target, options ...CoordinatorOption) (*Coordinator, error) {
	if client == nil {
		return nil, errors.New("[NewCoordinator] api client is required")
	}
	if target.ApplicationID == "" {
		return nil, errors.New("[NewCoordinator] target application ID is required")
	}

	co := &Coordinator{
		client:       client,
		target:       target,
		storage:      http.DefaultClient,
		logger:       zerolog.Nop(),
		etaThreshold: etaThresholdBytes,
		state:        State{Status: StatusIdle},
	}

	for _, opt := range options {
		opt(co)
	}

	return co, nil
}

// Upload runs the full flow for file. It blocks until the upload completes,
// fails, or is cancelled; the outcome is also recorded in State. Only one
// attempt runs at a time.
func (co *Coordinator) Upload(ctx context.Context, file *File) error {
	co.lock.Lock()
	switch co.state.Status {
	case StatusUploading, StatusConfirming:
		co.lock.Unlock()
		return errors.New("[Coordinator.Upload] upload already in progress")
	case StatusCompleted:
		co.lock.Unlock()
		return errors.New("[Coordinator.Upload] already completed, Reset first")
	}

	ctx, cancel := context.WithCancel(ctx)
	co.cancel = cancel
	co.file = file
	co.startedAt = NowTimeFunc()
	co.state = State{
		Status:     StatusUploading,
		TotalBytes: file.Size,
		FileName:   file.Name,
	}
	co.lock.Unlock()

	err := co.run(ctx, file)
	cancel()

	co.lock.Lock()
	defer co.lock.Unlock()

	switch {
	case err == nil:
		co.state.Status = StatusCompleted
		co.state.Progress = 100
		co.state.Speed = 0
		co.state.ETA = 0
		return nil
	case errors.Is(err, context.Canceled):
		co.state.Status = StatusCancelled
		co.state.Err = nil
		co.state.Speed = 0
		co.state.ETA = 0
		return dittoerrors.ErrUploadCancelled
	default:
		co.logger.Warn().Err(err).Str("file", file.Name).Msg("upload failed")
		co.state.Status = StatusFailed
		co.state.Err = err
		co.state.Speed = 0
		co.state.ETA = 0
		return err
	}
}

func (co *Coordinator) run(ctx context.Context, file *File) error {
	presigned, err := co.client.PresignUpload(ctx, api.PresignUploadRequest{
		FileName:          file.Name,
		FileType:          file.ContentType,
		FileSize:          file.Size,
		ApplicationID:     co.target.ApplicationID,
		InterviewID:       co.target.InterviewID,
		SubmissionContext: co.target.submissionContext(),
	})
	if err != nil {
		return errors.Wrap(err, "[Coordinator.run] presign")
	}

	if err := co.transfer(ctx, presigned.PresignedURL, file); err != nil {
		return errors.Wrap(err, "[Coordinator.run] transfer")
	}

	co.setConfirming()

	record, err := co.client.ConfirmUpload(ctx, api.ConfirmUploadRequest{
		S3Key:             presigned.S3Key,
		FileName:          file.Name,
		FileType:          file.ContentType,
		FileSize:          file.Size,
		ApplicationID:     co.target.ApplicationID,
		InterviewID:       co.target.InterviewID,
		SubmissionContext: co.target.submissionContext(),
	})
	if err != nil {
		return errors.Wrap(err, "[Coordinator.run] confirm")
	}

	if co.onComplete != nil {
		co.onComplete(record)
	}
	return nil
}

// transfer PUTs the file bytes to the presigned URL, reporting progress per
// chunk.
func (co *Coordinator) transfer(ctx context.Context, presignedURL string, file *File) error {
	content, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "open file")
	}
	defer content.Close()

	body := &progressReader{
		reader:  content,
		total:   file.Size,
		onChunk: co.reportChunk,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, body)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.ContentLength = file.Size
	req.Header.Set("Content-Type", file.ContentType)

	resp, err := co.storage.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("storage responded with status %d", resp.StatusCode)
	}
	return nil
}

func (co *Coordinator) reportChunk(loaded, total int64) {
	co.lock.Lock()

	co.state.BytesUploaded = loaded
	co.state.Progress = percent(loaded, total)

	elapsed := NowTimeFunc().Sub(co.startedAt).Seconds()
	if elapsed > 0 && total > co.etaThreshold {
		speed := float64(loaded) / elapsed
		co.state.Speed = speed
		if speed > 0 {
			co.state.ETA = time.Duration(float64(total-loaded) / speed * float64(time.Second))
		}
	}

	progress := Progress{Loaded: loaded, Total: total, Percent: co.state.Progress}
	co.lock.Unlock()

	if co.onProgress != nil {
		co.onProgress(progress)
	}
}

func (co *Coordinator) setConfirming() {
	co.lock.Lock()
	co.state.Status = StatusConfirming
	co.state.Progress = 100
	co.lock.Unlock()
}

// Cancel aborts the in-flight attempt. The resulting state is cancelled,
// not failed. Cancelling when nothing is in flight is a no-op.
func (co *Coordinator) Cancel() {
	co.lock.Lock()
	cancel := co.cancel
	co.lock.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Retry re-attempts the last file from scratch with a fresh presigned URL.
// Valid only after a failed or cancelled attempt.
func (co *Coordinator) Retry(ctx context.Context) error {
	co.lock.Lock()
	file := co.file
	status := co.state.Status
	co.lock.Unlock()

	if file == nil {
		return errors.New("[Coordinator.Retry] nothing to retry")
	}
	if status != StatusFailed && status != StatusCancelled {
		return errors.Errorf("[Coordinator.Retry] cannot retry from status %q", status)
	}
	return co.Upload(ctx, file)
}

// Reset aborts any in-flight attempt and returns to idle, discarding all
// progress state.
func (co *Coordinator) Reset() {
	co.lock.Lock()
	if co.cancel != nil {
		co.cancel()
		co.cancel = nil
	}
	co.file = nil
	co.state = State{Status: StatusIdle}
	co.lock.Unlock()
}

// State returns a snapshot of the current upload state.
func (co *Coordinator) State() State {
	co.lock.Lock()
	defer co.lock.Unlock()
	return co.state
}

func (t Target) submissionContext() string {
	if t.Assessment {
		return "assessment"
	}
	return ""
}
