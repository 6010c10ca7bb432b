package security

import "fmt"

// MaxDocumentSize is the inclusive upload size cap (5 MiB). A file of exactly
// this size passes; one byte more is rejected.
const MaxDocumentSize = 5 * 1024 * 1024

// ValidationReason identifies which check rejected a file.
type ValidationReason string

const (
	ReasonUnsupportedType     ValidationReason = "unsupported_file_type"
	ReasonExtensionNotAllowed ValidationReason = "extension_not_allowed"
	ReasonFileTooLarge        ValidationReason = "file_too_large"
)

// ValidationError reports a rejected file with a distinct reason code.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// mimeExtensions maps each whitelisted mime type to its canonical extension.
// The extension checked below is always derived from the declared mime type;
// the client-supplied filename is never trusted.
var mimeExtensions = map[string]string{
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// Allowed derived extensions (strict whitelist)
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// ExtensionFromMIME derives the canonical extension for a declared mime type.
// Returns false when the mime type is not whitelisted.
func ExtensionFromMIME(fileType string) (string, bool) {
	ext, ok := mimeExtensions[fileType]
	return ext, ok
}

// IsImageMIME reports whether the mime type gets image handling in storage.
func IsImageMIME(fileType string) bool {
	return fileType == "image/jpeg" || fileType == "image/png"
}

// ValidateDocument runs the acceptance checks in a fixed order: mime type
// whitelist, derived extension whitelist, size cap. The first failure
// short-circuits with its reason. No side effects.
func ValidateDocument(fileType, derivedExtension string, sizeBytes int64) *ValidationError {
	if _, ok := mimeExtensions[fileType]; !ok {
		return &ValidationError{
			Reason:  ReasonUnsupportedType,
			Message: "unsupported file type: " + fileType,
		}
	}

	if !allowedExtensions[derivedExtension] {
		return &ValidationError{
			Reason:  ReasonExtensionNotAllowed,
			Message: "file extension not allowed: " + derivedExtension,
		}
	}

	if sizeBytes > MaxDocumentSize {
		return &ValidationError{
			Reason:  ReasonFileTooLarge,
			Message: fmt.Sprintf("file size %d exceeds %d byte limit", sizeBytes, MaxDocumentSize),
		}
	}

	return nil
}
