package db

import (
	"strings"

	"github.com/teranos/wmsnav/errors"
)

// ErrDatabaseClosed is returned when operations are attempted on a closed database,
// typically while the server shuts down and sessions are still being torn down.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err means the connection is closed.
// The driver returns its own error values, so the message is matched as a fallback.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
