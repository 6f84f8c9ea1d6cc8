package recovery

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CutoffFormat is the required layout for recovery timestamps: UTC with a
// literal Z suffix, second resolution.
const CutoffFormat = "2006-01-02T15:04:05Z"

// DefaultPageSize bounds a single version-listing call.
const DefaultPageSize = 999

// Version is one entry of an object's version history as reported by the
// storage service.
type Version struct {
	Key        string
	VersionID  string
	ModifiedAt time.Time
}

// Target is the version a key will be restored to.
type Target struct {
	VersionID  string    `json:"version_id"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Cursor is the continuation token pair for version listing. The zero
// value requests the first page.
type Cursor struct {
	KeyMarker       string
	VersionIDMarker string
}

// Page is one bounded batch of version records. Next is only meaningful
// when Truncated is true.
type Page struct {
	Versions  []Version
	Truncated bool
	Next      Cursor
}

// Lister pages through the version history of a prefix.
type Lister interface {
	ListVersions(ctx context.Context, prefix string, cursor Cursor, maxKeys int32) (Page, error)
}

// Restorer makes a historical version the current version of its key.
type Restorer interface {
	RestoreVersion(ctx context.Context, key, versionID string) error
}

// Deleter removes the current version of a key.
type Deleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// Store is the full storage surface a recovery run needs.
type Store interface {
	Lister
	Restorer
	Deleter
}

// ParseCutoff parses a recovery timestamp. Only the exact UTC form
// accepted by CutoffFormat is valid; offsets are rejected.
func ParseCutoff(s string) (time.Time, error) {
	if !strings.HasSuffix(s, "Z") {
		return time.Time{}, fmt.Errorf("invalid recovery time %q: must be UTC in format %s", s, CutoffFormat)
	}
	t, err := time.Parse(CutoffFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid recovery time %q: must be UTC in format %s", s, CutoffFormat)
	}
	return t.UTC(), nil
}
