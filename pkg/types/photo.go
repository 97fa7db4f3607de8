package types

import "time"

// Photo owner suffixes. An issue's documentation and follow-up photos
// share the issue id but carry distinct owner suffixes so they can be
// scanned separately in the blob store's owner index.
const (
	OwnerSuffixDocumentation = ":doc"
	OwnerSuffixFollowUp      = ":followup"
)

// PhotoBlob is one binary photo payload in the blob store. Photos are
// referenced from issue records by ID, never embedded.
type PhotoBlob struct {
	ID         string
	Data       []byte
	MimeType   string
	Size       int64
	OwnerID    string
	UploadedAt time.Time
}

// PhotoExport is the portable form of a PhotoBlob: the payload
// re-encoded as base64 for inclusion in a backup document.
type PhotoExport struct {
	ID         string    `json:"id"`
	Base64     string    `json:"base64"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	OwnerID    string    `json:"ownerId"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// BlobStats summarizes blob store usage for pre-restore comparison.
type BlobStats struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"totalBytes"`
}
