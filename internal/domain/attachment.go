package domain

// Attachment stores uploaded file metadata. Immutable once created; tickets,
// tasks and submissions reference attachments but never mutate them.
type Attachment struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	StorageKey string `json:"storage_key"`
}
