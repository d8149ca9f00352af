package artifact

import (
	"strings"
	"time"
	"unicode"
)

// FileSuffix is appended to every sanitized name.
const FileSuffix = "_recruiting_ad.txt"

// Entry describes a stored ad.
type Entry struct {
	Name    string    `json:"name"` // Sanitized name
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Store persists ads by job title.
type Store interface {
	// Save writes content under the sanitized name and returns its location.
	Save(name, content string) (string, error)
	// Get returns the content stored under name.
	Get(name string) (string, error)
	// List returns stored ads ordered by name.
	List() ([]Entry, error)
}

// Sanitize maps a job title to a file-system safe name.
func Sanitize(name string) string {
	var b strings.Builder

	lastUnderscore := true // suppresses leading underscores
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}

// FileName returns the file name used for name, or ErrEmptyName.
func FileName(name string) (string, error) {
	s := Sanitize(name)
	if s == "" {
		return "", ErrEmptyName
	}
	return s + FileSuffix, nil
}
