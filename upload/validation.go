package upload

import (
	"path/filepath"
	"strings"

	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
)

const (
	// MaxFileSize is the general upload limit.
	MaxFileSize = 5 * 1024 * 1024 // 5MB

	// AssessmentMaxFileSize is the limit for assessment submissions.
	AssessmentMaxFileSize = 10 * 1024 * 1024 // 10MB
)

var allowedContentTypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

var allowedExtensions = []string{".pdf", ".docx", ".txt"}

var assessmentContentTypes = append([]string{
	"application/zip",
	"application/x-zip-compressed",
}, allowedContentTypes...)

var assessmentExtensions = append([]string{".zip"}, allowedExtensions...)

// ValidateFile checks a general upload against the size limit and the
// allowed document types (PDF, DOCX, TXT). The extension is consulted when
// the content type is not recognized. A maxSize of zero or less falls back
// to MaxFileSize.
func ValidateFile(file *File, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return validate(file, maxSize, allowedContentTypes, allowedExtensions)
}

// ValidateAssessmentFile checks an assessment submission, which additionally
// permits ZIP archives and a larger size limit (AssessmentMaxFileSize when
// maxSize is zero or less).
func ValidateAssessmentFile(file *File, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = AssessmentMaxFileSize
	}
	return validate(file, maxSize, assessmentContentTypes, assessmentExtensions)
}

func validate(file *File, maxSize int64, contentTypes, extensions []string) error {
	if file.Size == 0 {
		return dittoerrors.ErrEmptyFile
	}
	if file.Size > maxSize {
		return dittoerrors.ErrFileTooLarge
	}

	for _, ct := range contentTypes {
		if file.ContentType == ct {
			return nil
		}
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	for _, allowed := range extensions {
		if ext == allowed {
			return nil
		}
	}
	return dittoerrors.ErrFileType
}
