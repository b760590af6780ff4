package attachment

import (
	"path/filepath"
	"strings"
)

// FormatMessage is shown to the user when a receipt has an unsupported extension.
const FormatMessage = "Choose a jpg, jpeg, or png format"

var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

type ValidationError struct {
	FileName string
}

func (e *ValidationError) Error() string {
	return FormatMessage
}

// ValidateFileName accepts jpg, jpeg and png receipts, ignoring case.
func ValidateFileName(name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return &ValidationError{FileName: name}
	}

	return nil
}

// IsImage reports whether a receipt can be shown inline in the preview modal.
func IsImage(nameOrURL string) bool {
	if i := strings.IndexAny(nameOrURL, "?#"); i >= 0 {
		nameOrURL = nameOrURL[:i]
	}

	return ValidateFileName(nameOrURL) == nil
}
