package upload_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dittohq/ditto-go/api"
	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
	"github.com/dittohq/ditto-go/upload"
)

// uploadBackend fakes the presign/confirm endpoints and the storage target.
type uploadBackend struct {
	mu            sync.Mutex
	presignCalls  int
	confirmCalls  int
	putCalls      int
	putBytes      int64
	putFails      int           // fail this many transfers with a 500
	blockTransfer chan struct{} // when set, the PUT handler stops reading until closed

	lastPresign api.PresignUploadRequest
	lastConfirm api.ConfirmUploadRequest

	statusAtConfirm upload.Status
	coordinator     *upload.Coordinator

	server *httptest.Server
}

func newUploadBackend(t *testing.T) *uploadBackend {
	t.Helper()
	b := &uploadBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/files/presigned-upload", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.presignCalls++
		json.NewDecoder(r.Body).Decode(&b.lastPresign) //nolint:errcheck
		b.mu.Unlock()

		writeData(w, api.PresignedUpload{
			PresignedURL: b.server.URL + "/storage/resume-key",
			S3Key:        "resume-key",
			ExpiresIn:    900,
		})
	})

	mux.HandleFunc("PUT /storage/resume-key", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.putCalls++
		fail := b.putFails > 0
		if fail {
			b.putFails--
		}
		block := b.blockTransfer
		b.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if block != nil {
			// Read a first chunk so progress is reported, then stall.
			buf := make([]byte, 64*1024)
			r.Body.Read(buf) //nolint:errcheck
			<-block
			return
		}

		n, _ := io.Copy(io.Discard, r.Body)
		b.mu.Lock()
		b.putBytes = n
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /api/files/confirm-upload", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.confirmCalls++
		json.NewDecoder(r.Body).Decode(&b.lastConfirm) //nolint:errcheck
		if b.coordinator != nil {
			b.statusAtConfirm = b.coordinator.State().Status
		}
		b.mu.Unlock()

		writeData(w, api.FileRecord{
			ID:       "file-1",
			FileName: b.lastConfirm.FileName,
			FileType: b.lastConfirm.FileType,
			FileSize: b.lastConfirm.FileSize,
			S3Key:    b.lastConfirm.S3Key,
		})
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func writeData(w http.ResponseWriter, payload any) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"data": payload}) //nolint:errcheck
}

func (b *uploadBackend) newCoordinator(t *testing.T, target upload.Target, options ...upload.CoordinatorOption) *upload.Coordinator {
	t.Helper()

	client, err := api.NewClient(b.server.URL)
	require.NoError(t, err)

	coordinator, err := upload.NewCoordinator(client, target, options...)
	require.NoError(t, err)
	b.coordinator = coordinator
	return coordinator
}

func testFile(size int) *upload.File {
	return upload.NewFileFromBytes("resume.pdf", "application/pdf", []byte(strings.Repeat("x", size)))
}

func TestCoordinator_Upload(t *testing.T) {
	t.Run("runs presign, transfer and confirm", func(t *testing.T) {
		backend := newUploadBackend(t)

		var progress []upload.Progress
		var completed *api.FileRecord
		coordinator := backend.newCoordinator(t,
			upload.Target{ApplicationID: "app-1", InterviewID: "int-1"},
			upload.WithProgress(func(p upload.Progress) { progress = append(progress, p) }),
			upload.WithOnComplete(func(record *api.FileRecord) { completed = record }),
		)

		file := testFile(2 * 1024 * 1024)
		require.NoError(t, coordinator.Upload(context.Background(), file))

		state := coordinator.State()
		require.Equal(t, upload.StatusCompleted, state.Status)
		require.Equal(t, 100, state.Progress)
		require.Equal(t, file.Size, state.TotalBytes)
		require.Equal(t, "resume.pdf", state.FileName)
		require.NoError(t, state.Err)

		require.Equal(t, 1, backend.presignCalls)
		require.Equal(t, 1, backend.putCalls)
		require.Equal(t, file.Size, backend.putBytes)
		require.Equal(t, 1, backend.confirmCalls)
		require.Equal(t, upload.StatusConfirming, backend.statusAtConfirm)

		require.Equal(t, "resume.pdf", backend.lastPresign.FileName)
		require.Equal(t, "app-1", backend.lastPresign.ApplicationID)
		require.Equal(t, "int-1", backend.lastPresign.InterviewID)
		require.Equal(t, "resume-key", backend.lastConfirm.S3Key)

		require.NotNil(t, completed)
		require.Equal(t, "file-1", completed.ID)

		require.NotEmpty(t, progress)
		require.Equal(t, file.Size, progress[len(progress)-1].Loaded)
		require.Equal(t, 100, progress[len(progress)-1].Percent)
	})

	t.Run("assessment target sets submission context", func(t *testing.T) {
		backend := newUploadBackend(t)
		coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1", Assessment: true})

		require.NoError(t, coordinator.Upload(context.Background(), testFile(128)))
		require.Equal(t, "assessment", backend.lastPresign.SubmissionContext)
		require.Equal(t, "assessment", backend.lastConfirm.SubmissionContext)
	})

	t.Run("reports speed and ETA above the size threshold", func(t *testing.T) {
		backend := newUploadBackend(t)

		var speedSeen bool
		coordinator := backend.newCoordinator(t,
			upload.Target{ApplicationID: "app-1"},
			upload.WithProgress(func(upload.Progress) {
				if backend.coordinator.State().Speed > 0 {
					speedSeen = true
				}
			}),
		)

		require.NoError(t, coordinator.Upload(context.Background(), testFile(4*1024*1024)))
		require.True(t, speedSeen)
	})

	t.Run("configured threshold moves the ETA cutoff", func(t *testing.T) {
		backend := newUploadBackend(t)

		var speedSeen bool
		coordinator := backend.newCoordinator(t,
			upload.Target{ApplicationID: "app-1"},
			upload.WithETAThreshold(512),
			upload.WithProgress(func(upload.Progress) {
				if backend.coordinator.State().Speed > 0 {
					speedSeen = true
				}
			}),
		)

		// Well under the default 1 MiB cutoff, above the configured one.
		require.NoError(t, coordinator.Upload(context.Background(), testFile(4*1024)))
		require.True(t, speedSeen)
	})

	t.Run("small files report no ETA", func(t *testing.T) {
		backend := newUploadBackend(t)
		coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1"})

		require.NoError(t, coordinator.Upload(context.Background(), testFile(1024)))
		state := coordinator.State()
		require.Zero(t, state.Speed)
		require.Zero(t, state.ETA)
	})

	t.Run("storage failure ends in failed with the error recorded", func(t *testing.T) {
		backend := newUploadBackend(t)
		backend.putFails = 1
		coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1"})

		err := coordinator.Upload(context.Background(), testFile(128))
		require.Error(t, err)

		state := coordinator.State()
		require.Equal(t, upload.StatusFailed, state.Status)
		require.Error(t, state.Err)
		require.Zero(t, backend.confirmCalls)
	})
}

func TestCoordinator_Cancel(t *testing.T) {
	t.Run("cancel mid-transfer yields cancelled, not failed", func(t *testing.T) {
		backend := newUploadBackend(t)
		block := make(chan struct{})
		backend.blockTransfer = block
		defer close(block)

		started := make(chan struct{})
		var once sync.Once
		coordinator := backend.newCoordinator(t,
			upload.Target{ApplicationID: "app-1"},
			upload.WithProgress(func(upload.Progress) {
				once.Do(func() { close(started) })
			}),
		)

		done := make(chan error, 1)
		go func() {
			done <- coordinator.Upload(context.Background(), testFile(10*1024*1024))
		}()

		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("transfer never started")
		}
		coordinator.Cancel()

		select {
		case err := <-done:
			require.ErrorIs(t, err, dittoerrors.ErrUploadCancelled)
		case <-time.After(5 * time.Second):
			t.Fatal("upload did not stop after cancel")
		}

		state := coordinator.State()
		require.Equal(t, upload.StatusCancelled, state.Status)
		require.NoError(t, state.Err)
		require.Zero(t, backend.confirmCalls)
	})

	t.Run("cancel with nothing in flight is a no-op", func(t *testing.T) {
		backend := newUploadBackend(t)
		coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1"})
		coordinator.Cancel()
		require.Equal(t, upload.StatusIdle, coordinator.State().Status)
	})
}

func TestCoordinator_Retry(t *testing.T) {
	t.Run("re-attempts from scratch with a fresh presign", func(t *testing.T) {
		backend := newUploadBackend(t)
		backend.putFails = 1
		coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1"})

		require.Error(t, coordinator.Upload(context.Background(), testFile(128)))
		require.Equal(t, upload.StatusFailed, coordinator.State().Status)

		require.NoError(t, coordinator.Retry(context.Background()))
		require.Equal(t, upload.StatusCompleted, coordinator.State().Status)
		require.Equal(t, 2, backend.presignCalls)
	})

	t.Run("nothing to retry", func(t *testing.T) {
		backend := newUploadBackend(t)
		coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1"})
		require.Error(t, coordinator.Retry(context.Background()))
	})

	t.Run("cannot retry a completed upload", func(t *testing.T) {
		backend := newUploadBackend(t)
		coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1"})

		require.NoError(t, coordinator.Upload(context.Background(), testFile(128)))
		require.Error(t, coordinator.Retry(context.Background()))
	})
}

func TestCoordinator_Reset(t *testing.T) {
	backend := newUploadBackend(t)
	coordinator := backend.newCoordinator(t, upload.Target{ApplicationID: "app-1"})

	require.NoError(t, coordinator.Upload(context.Background(), testFile(128)))
	coordinator.Reset()

	state := coordinator.State()
	require.Equal(t, upload.StatusIdle, state.Status)
	require.Zero(t, state.Progress)
	require.Zero(t, state.TotalBytes)
	require.Empty(t, state.FileName)
}
