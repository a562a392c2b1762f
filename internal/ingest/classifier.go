package ingest

import (
	"errors"
	"strings"

	"github.com/Reainz/Snapflow-sub000/internal/transcode"
)

// Error codes persisted on failed video assets
const (
	CodeRateLimit         = "RATE_LIMIT"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeAuthFailure       = "AUTH_FAILURE"
	CodeUnavailable       = "UNAVAILABLE"
	CodeTimeout           = "TIMEOUT"
	CodeRawFileDeleted    = "RAW_FILE_DELETED"
	CodeUnknown           = "UNKNOWN_ERROR"
)

// Classification is the outcome of mapping a provider error: a stable code
// for client branching, a human-readable message, and whether retrying can
// possibly help.
type Classification struct {
	Code      string
	Message   string
	Retryable bool
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Classify maps a transcoding provider error to a Classification. Rules are
// priority ordered; the first match wins. Returns ok=false when err is not a
// provider error at all, in which case the caller treats it as an unknown
// retryable failure using the raw message.
func Classify(err error) (Classification, bool) {
	var pe *transcode.ProviderError
	if !errors.As(err, &pe) {
		return Classification{}, false
	}

	msg := strings.ToLower(pe.Message)
	status := pe.StatusCode

	switch {
	case status == 429 || containsAny(msg, "rate limit", "too many requests"):
		return Classification{
			Code:      CodeRateLimit,
			Message:   "The video service is busy right now. Processing will be retried shortly.",
			Retryable: true,
		}, true

	case status == 400 && containsAny(msg, "too large", "file size"):
		return Classification{
			Code:      CodeFileTooLarge,
			Message:   "This video is too large to process. Please upload a smaller file.",
			Retryable: false,
		}, true

	case status == 400 && containsAny(msg, "unsupported", "invalid video", "format not supported"):
		return Classification{
			Code:      CodeUnsupportedFormat,
			Message:   "This video format is not supported. Please upload an MP4 or MOV file.",
			Retryable: false,
		}, true

	case status == 401 || status == 403 || containsAny(msg, "invalid credential", "invalid signature"):
		return Classification{
			Code:      CodeAuthFailure,
			Message:   "Video processing failed due to a service configuration problem.",
			Retryable: false,
		}, true

	case status >= 500:
		return Classification{
			Code:      CodeUnavailable,
			Message:   "The video service is temporarily unavailable. Processing will be retried.",
			Retryable: true,
		}, true

	case strings.Contains(msg, "timeout"):
		return Classification{
			Code:      CodeTimeout,
			Message:   "Video processing timed out. Processing will be retried.",
			Retryable: true,
		}, true

	default:
		// Any remaining error that carries an HTTP code or a provider name is
		// still a provider error, just an unrecognized one
		if status > 0 || pe.Provider != "" {
			code := CodeUnknown
			if pe.Provider != "" {
				code = strings.ToUpper(pe.Provider) + "_ERROR"
			}
			return Classification{
				Code:      code,
				Message:   "Video processing failed. Processing will be retried.",
				Retryable: true,
			}, true
		}
		return Classification{}, false
	}
}
