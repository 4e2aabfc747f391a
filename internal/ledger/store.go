package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vpnforge/vpnforge/internal/constants"
	appErrors "github.com/vpnforge/vpnforge/internal/errors"
)

// Store is durable storage for a ledger.
// Load returns an empty ledger, not an error, when nothing was saved yet.
type Store interface {
	Load(ctx context.Context) (*Ledger, error)
	Save(ctx context.Context, l *Ledger) error
	// Location describes where the ledger lives, for messages.
	Location() string
}

// Format is a ledger serialisation format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serialises l in the given format.
func Encode(l *Ledger, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(l)
	default:
		data, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Decode parses data in the given format. Blank input is an empty ledger.
func Decode(data []byte, format Format) (*Ledger, error) {
	l := New("")
	if len(bytes.TrimSpace(data)) == 0 {
		return l, nil
	}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, l)
	default:
		err = json.Unmarshal(data, l)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// FileStore keeps the ledger in a local file. The format follows the extension.
type FileStore struct {
	Path string
}

// NewFileStore returns a store for the ledger file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Location returns the file path.
func (s *FileStore) Location() string {
	return s.Path
}

// Load reads the ledger file. A missing file is an empty ledger.
func (s *FileStore) Load(_ context.Context) (*Ledger, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return New(""), nil
	}
	if err != nil {
		return nil, appErrors.ErrLedger(fmt.Sprintf("failed to read ledger %s", s.Path), err)
	}

	l, err := Decode(data, FormatForPath(s.Path))
	if err != nil {
		return nil, appErrors.ErrLedger(fmt.Sprintf("failed to parse ledger %s", s.Path), err)
	}
	return l, nil
}

// Save writes the ledger atomically: a temporary file in the same directory
// is written, synced and renamed over the target.
func (s *FileStore) Save(_ context.Context, l *Ledger) error {
	data, err := Encode(l, FormatForPath(s.Path))
	if err != nil {
		return appErrors.ErrLedger("failed to encode ledger", err)
	}

	dir := filepath.Dir(s.Path)
	if err = os.MkdirAll(dir, constants.ConfigDirPermissions); err != nil {
		return appErrors.ErrLedger(fmt.Sprintf("failed to create ledger directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return appErrors.ErrLedger("failed to create temporary ledger file", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, constants.LedgerFilePermissions)
	}
	if err == nil {
		err = os.Rename(tmpName, s.Path)
	}
	if err != nil {
		return appErrors.ErrLedger(fmt.Sprintf("failed to write ledger %s", s.Path), err)
	}
	return nil
}

// MemoryStore keeps an encoded copy of the ledger in memory and counts saves.
// It is meant for tests and dry runs.
type MemoryStore struct {
	data  []byte
	Saves int
}

// Location returns a fixed description.
func (s *MemoryStore) Location() string {
	return "memory"
}

// Load decodes the last saved copy.
func (s *MemoryStore) Load(_ context.Context) (*Ledger, error) {
	return Decode(s.data, FormatJSON)
}

// Save stores an encoded copy so later mutations of l are not visible.
func (s *MemoryStore) Save(_ context.Context, l *Ledger) error {
	data, err := Encode(l, FormatJSON)
	if err != nil {
		return appErrors.ErrLedger("failed to encode ledger", err)
	}
	s.data = data
	s.Saves++
	return nil
}
