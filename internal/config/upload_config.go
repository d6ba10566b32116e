package config

type UploadConfig interface {
	GetMaxFileSize() int64
	GetAssessmentMaxFileSize() int64
	GetETAThresholdBytes() int64
}

type Upload struct{}

var _ UploadConfig = Upload{}

func (Upload) GetMaxFileSize() int64 {
	return 5 * 1024 * 1024 // 5MB
}

func (Upload) GetAssessmentMaxFileSize() int64 {
	return 10 * 1024 * 1024 // 10MB for assessment submissions
}

// GetETAThresholdBytes returns the minimum file size for which transfer speed
// and estimated-time-remaining are reported. Estimates on tiny files are noise.
func (Upload) GetETAThresholdBytes() int64 {
	return 1024 * 1024
}
