package dto

import "time"

// CreateThreadRequest posts a chat message on a defect. Idempotent by the
// client-supplied id, like defect creation.
type CreateThreadRequest struct {
	ID            string   `json:"id"        binding:"required,uuid"`
	DefectID      string   `json:"defect_id" binding:"required,uuid"`
	Author        string   `json:"author"    binding:"required"` // display role, e.g. "Chief Engineer"
	Body          string   `json:"body"      binding:"required"`
	TaggedUserIDs []string `json:"tagged_user_ids"`
}

// ThreadResponse is the thread view returned to the UI. Attachment blob
// paths are replaced by fresh read SAS URLs before the response leaves
// the service.
type ThreadResponse struct {
	ID              string               `json:"id"`
	DefectID        string               `json:"defect_id"`
	UserID          string               `json:"user_id"`
	AuthorRole      string               `json:"author_role"`
	Body            string               `json:"body"`
	IsSystemMessage bool                 `json:"is_system_message"`
	TaggedUserIDs   []string             `json:"tagged_user_ids"`
	Attachments     []AttachmentResponse `json:"attachments"`
	CreatedAt       time.Time            `json:"created_at"`
}

// CreateAttachmentRequest registers uploaded-file metadata on a thread.
type CreateAttachmentRequest struct {
	ID          string `json:"id"        binding:"required,uuid"`
	ThreadID    string `json:"thread_id" binding:"required,uuid"`
	FileName    string `json:"file_name" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
	ContentType string `json:"content_type"`
	BlobPath    string `json:"blob_path" binding:"required"`
}

// AttachmentResponse is the attachment view returned to the UI.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	ThreadID    string    `json:"thread_id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type,omitempty"`
	BlobPath    string    `json:"blob_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignedURLRequest asks for a fresh read URL for one blob.
type SignedURLRequest struct {
	BlobPath string `json:"blob_path" binding:"required"`
}

// SignedURLResponse carries a freshly minted read URL.
type SignedURLResponse struct {
	URL         string `json:"url"`
	BlobPath    string `json:"blob_path"`
	ExpiryHours int    `json:"expiry_hours"`
}

// BatchSignedURLsRequest asks for read URLs for several blobs at once,
// e.g. when loading a whole thread conversation.
type BatchSignedURLsRequest struct {
	BlobPaths []string `json:"blob_paths" binding:"required,min=1"`
}

// BatchSignedURLEntry is one outcome in a batch signing request.
type BatchSignedURLEntry struct {
	BlobPath string `json:"blob_path"`
	URL      string `json:"url,omitempty"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// UploadURLResponse carries a write-capable upload URL.
type UploadURLResponse struct {
	URL      string `json:"url"`
	BlobPath string `json:"blob_path"`
}
