package format

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Folder name validation errors.
var (
	ErrEmptyName   = errors.New("folder name cannot be empty")
	ErrNameTooLong = errors.New("folder name cannot exceed 255 characters")
)

const maxFolderNameLen = 255

// ValidateFolderName checks the two rules enforced client-side: the name
// must be non-empty after trimming and at most 255 characters. Everything
// else (forbidden characters, reserved names) is the server's call.
func ValidateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxFolderNameLen {
		return ErrNameTooLong
	}
	return nil
}
