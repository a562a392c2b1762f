package ingest

import (
	"regexp"
	"strings"
)

// StorageObjectEvent is a raw-object-finalized notification from the object
// storage collaborator
type StorageObjectEvent struct {
	Bucket      string            `json:"bucket"`
	Path        string            `json:"path"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata"`
}

// Raw uploads land at raw-videos/{userId}/{assetId}.{ext}
var rawVideoPathRe = regexp.MustCompile(`^raw-videos/([^/]+)/([^/.]+)\.([A-Za-z0-9]+)$`)

// ParseRawVideoPath extracts the owner and asset id from a raw upload path
func ParseRawVideoPath(path string) (userID, assetID string, ok bool) {
	m := rawVideoPathRe.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// IsVideoUpload reports whether the event is a finalized raw video this
// pipeline should handle at all. This is a filter, not a state.
func IsVideoUpload(evt StorageObjectEvent) bool {
	if !strings.HasPrefix(evt.ContentType, "video/") {
		return false
	}
	_, _, ok := ParseRawVideoPath(evt.Path)
	return ok
}
