package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/agbru/nbase/pkg/nbase"
)

// sessionSchemaVersion is incremented whenever Session changes shape.
const sessionSchemaVersion uint16 = 1

// ErrSessionSchema is returned when a session file was written by an
// incompatible version.
var ErrSessionSchema = errors.New("unsupported session schema")

// Session is the on-disk form of a REPL session.
type Session struct {
	Schema  uint16                    `msgpack:"schema"`
	Base    int                       `msgpack:"base"`
	Charset string                    `msgpack:"charset,omitempty"`
	Vars    map[string]nbase.Snapshot `msgpack:"vars"`
}

// SaveSession writes s to path atomically.
//
// Parameters:
//   - path: The destination file.
//   - s: The session to save.
//
// Returns:
//   - error: An error if the file cannot be written.
func SaveSession(path string, s Session) error {
	s.Schema = sessionSchemaVersion
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".nbase-session-*")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(&s); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadSession reads a session written by SaveSession.
//
// Parameters:
//   - path: The session file.
//
// Returns:
//   - Session: The decoded session.
//   - error: An error if the file cannot be read or has another schema.
func LoadSession(path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return Session{}, err
	}
	defer f.Close()

	var s Session
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Schema != sessionSchemaVersion {
		return Session{}, fmt.Errorf("%w: %d", ErrSessionSchema, s.Schema)
	}
	return s, nil
}
