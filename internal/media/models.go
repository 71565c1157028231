package media

// Media represents a server-confirmed upload.
type Media struct {
	ID           string `json:"id"`
	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Type         string `json:"type"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Order        int    `json:"order"`
}

// Resize is an optional server-side resize directive, sent as a JSON string
// side-channel field in the upload form.
type Resize struct {
	Width   int `json:"width,omitempty"`
	Height  int `json:"height,omitempty"`
	Quality int `json:"quality,omitempty"`
}

// UploadOptions qualifies an upload: its purpose and, for post media, the
// post it belongs to.
type UploadOptions struct {
	Type   string // "profile" or "post"
	PostID string
	Resize *Resize
}

// UploadResponse is the payload of POST /media/upload.
type UploadResponse struct {
	Media   Media  `json:"media"`
	Message string `json:"message,omitempty"`
}

// PreviewMedia is a locally staged file that has not reached the server yet.
// Its backing Source must be released exactly once when the preview is
// discarded or the batch it belongs to completes.
type PreviewMedia struct {
	ID       string
	Name     string
	Size     int64
	Uploaded bool

	src      Source
	released bool
}

// Constants for staged uploads
const (
	MaxFilenameLength = 255
	MaxFileSize       = 100 * 1024 * 1024 // 100MB
)

// AllowedContentTypes defines the whitelist for staged files
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
}
