package upload_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dittohq/ditto-go/internal/config"
	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
	"github.com/dittohq/ditto-go/upload"
)

func TestValidateFile(t *testing.T) {
	t.Run("accepts a PDF within the limit", func(t *testing.T) {
		file := upload.NewFileFromBytes("resume.pdf", "application/pdf", make([]byte, 1024))
		require.NoError(t, upload.ValidateFile(file, 0))
	})

	t.Run("falls back on the extension for unknown content types", func(t *testing.T) {
		file := upload.NewFileFromBytes("notes.TXT", "application/octet-stream", make([]byte, 10))
		require.NoError(t, upload.ValidateFile(file, 0))
	})

	t.Run("rejects empty files", func(t *testing.T) {
		file := upload.NewFileFromBytes("resume.pdf", "application/pdf", nil)
		require.ErrorIs(t, upload.ValidateFile(file, 0), dittoerrors.ErrEmptyFile)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		file := &upload.File{Name: "resume.pdf", ContentType: "application/pdf", Size: upload.MaxFileSize + 1}
		require.ErrorIs(t, upload.ValidateFile(file, 0), dittoerrors.ErrFileTooLarge)
	})

	t.Run("enforces a caller-supplied limit", func(t *testing.T) {
		file := upload.NewFileFromBytes("resume.pdf", "application/pdf", make([]byte, 1024))
		require.ErrorIs(t, upload.ValidateFile(file, 512), dittoerrors.ErrFileTooLarge)
	})

	t.Run("enforces the configured limit", func(t *testing.T) {
		cfg := config.New()
		file := &upload.File{Name: "resume.pdf", ContentType: "application/pdf", Size: cfg.GetMaxFileSize() + 1}
		require.ErrorIs(t, upload.ValidateFile(file, cfg.GetMaxFileSize()), dittoerrors.ErrFileTooLarge)

		file.Size = cfg.GetMaxFileSize()
		require.NoError(t, upload.ValidateFile(file, cfg.GetMaxFileSize()))
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		file := upload.NewFileFromBytes("photo.png", "image/png", make([]byte, 10))
		require.ErrorIs(t, upload.ValidateFile(file, 0), dittoerrors.ErrFileType)
	})

	t.Run("rejects zip outside assessment context", func(t *testing.T) {
		file := upload.NewFileFromBytes("project.zip", "application/zip", make([]byte, 10))
		require.ErrorIs(t, upload.ValidateFile(file, 0), dittoerrors.ErrFileType)
	})
}

func TestValidateAssessmentFile(t *testing.T) {
	t.Run("accepts zip archives", func(t *testing.T) {
		file := upload.NewFileFromBytes("project.zip", "application/zip", make([]byte, 10))
		require.NoError(t, upload.ValidateAssessmentFile(file, 0))
	})

	t.Run("accepts sizes above the general limit", func(t *testing.T) {
		file := &upload.File{Name: "project.zip", ContentType: "application/zip", Size: upload.MaxFileSize + 1}
		require.NoError(t, upload.ValidateAssessmentFile(file, 0))
	})

	t.Run("enforces the assessment limit", func(t *testing.T) {
		file := &upload.File{Name: "project.zip", ContentType: "application/zip", Size: upload.AssessmentMaxFileSize + 1}
		require.ErrorIs(t, upload.ValidateAssessmentFile(file, 0), dittoerrors.ErrFileTooLarge)
	})

	t.Run("enforces the configured assessment limit", func(t *testing.T) {
		cfg := config.New()
		file := &upload.File{Name: "project.zip", ContentType: "application/zip", Size: cfg.GetAssessmentMaxFileSize() + 1}
		require.ErrorIs(t, upload.ValidateAssessmentFile(file, cfg.GetAssessmentMaxFileSize()), dittoerrors.ErrFileTooLarge)
	})
}
