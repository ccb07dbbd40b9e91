package domain

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

const (
	MaxNameLength     = 200
	MaxModelFileBytes = 10 * 1024 * 1024

	ModelFileDir = "models/3d/"
	ThumbnailDir = "models/thumbnails/"
)

// AllowedModelExtensions lists accepted model_file extensions, lower case and without the dot.
var AllowedModelExtensions = []string{"glb", "gltf", "obj", "fbx"}

// Validation messages returned to clients.
const (
	MsgRequired      = "This field is required."
	MsgBlank         = "This field may not be blank."
	MsgNoFile        = "No file was submitted."
	MsgEmptyFile     = "The submitted file is empty."
	MsgFileTooLarge  = "File too large. Size should not exceed 10MB."
	MsgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgNameTooLong   = "Ensure this field has no more than %d characters."
	msgExtNotAllowed = "File extension “%s” is not allowed. Allowed extensions are: %s."
)

// ModelAsset is an uploaded 3D model with an optional thumbnail.
// ModelFile and Thumbnail hold blob storage keys, not URLs.
type ModelAsset struct {
	ID          int64
	Name        string
	Description *string
	ModelFile   string
	Thumbnail   *string
	FileSize    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Upload is a file received from a client, not yet persisted.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Touch refreshes UpdatedAt without letting it move backwards.
func (a *ModelAsset) Touch(now time.Time) {
	if now.Before(a.UpdatedAt) {
		return
	}
	a.UpdatedAt = now
}

func (a *ModelAsset) String() string {
	return a.Name
}

// ValidateName returns the messages for an invalid name, or nil. Surrounding
// whitespace is not counted; callers store TrimText(name).
func ValidateName(name string) []string {
	name = TrimText(name)
	if name == "" {
		return []string{MsgBlank}
	}
	if n := len([]rune(name)); n > MaxNameLength {
		return []string{fmt.Sprintf(msgNameTooLong, MaxNameLength)}
	}
	return nil
}

// ValidateModelFile checks the extension and size rules for a model upload.
func ValidateModelFile(u *Upload) []string {
	if u == nil || u.Filename == "" {
		return []string{MsgNoFile}
	}

	var msgs []string
	ext := Extension(u.Filename)
	if !isAllowedExtension(ext) {
		msgs = append(msgs, fmt.Sprintf(msgExtNotAllowed, ext, strings.Join(AllowedModelExtensions, ", ")))
	}
	if u.Size == 0 {
		msgs = append(msgs, MsgEmptyFile)
	}
	if u.Size > MaxModelFileBytes {
		msgs = append(msgs, MsgFileTooLarge)
	}
	return msgs
}

// TrimText strips surrounding whitespace from a submitted text field.
func TrimText(s string) string {
	return strings.TrimSpace(s)
}

// Extension returns the lower-cased extension of filename without the dot.
// A leading dot does not start an extension: ".glb" and "rock." have none.
func Extension(filename string) string {
	base := path.Base(filename)
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

func isAllowedExtension(ext string) bool {
	for _, allowed := range AllowedModelExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
