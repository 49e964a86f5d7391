// Package jsonfile stores the history of the last finished session as a
// single JSON document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/questionnaire/internal/config"
	"github.com/bnema/questionnaire/internal/domain"
	"github.com/bnema/questionnaire/internal/ports"
)

const (
	historyFileMode = 0o600
	historyDirMode  = 0o700
	tempFilePattern = ".history-*.json.tmp"
)

type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.HistoryStore = (*Store)(nil)

// NewStore uses history.path from cfg, or the default under the config directory.
func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(config.KeyHistoryPath)
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "history.json")
	}
	path, err := config.NormalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, mu: lockForPath(path)}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Save(ctx context.Context, history domain.History) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeSchema(toSchema(history))
}

// Load returns domain.ErrHistoryNotFound when the file is missing or cannot be
// decoded.
func (s *Store) Load(ctx context.Context) (domain.History, error) {
	if err := ctx.Err(); err != nil {
		return domain.History{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.History{}, domain.ErrHistoryNotFound
		}
		return domain.History{}, fmt.Errorf("read history file: %w", err)
	}

	var file fileSchema
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.History{}, fmt.Errorf("%w: decode history file: %v", domain.ErrHistoryNotFound, err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.History{}, fmt.Errorf("%w: %v", domain.ErrHistoryNotFound, err)
	}
	file.applyDefaults()

	return fromSchema(file), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), historyDirMode); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(append(data, '\n')); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tempFile.Chmod(historyFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp history file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(history domain.History) fileSchema {
	entries := make([]entrySchema, 0, len(history.Entries))
	for _, entry := range history.Entries {
		entries = append(entries, entrySchema{
			PromptText:   entry.PromptText,
			LeftAnswers:  entry.LeftAnswers,
			RightAnswers: entry.RightAnswers,
		})
	}

	return fileSchema{
		Version:  currentSchemaVersion,
		SavedAt:  formatTime(history.SavedAt),
		WasRight: history.WasRight,
		Entries:  entries,
	}
}

func fromSchema(file fileSchema) domain.History {
	entries := make([]domain.HistoryEntry, 0, len(file.Entries))
	for _, entry := range file.Entries {
		entries = append(entries, domain.HistoryEntry{
			PromptText:   entry.PromptText,
			LeftAnswers:  entry.LeftAnswers,
			RightAnswers: entry.RightAnswers,
		})
	}

	return domain.History{
		SavedAt:  parseTime(file.SavedAt),
		WasRight: file.WasRight,
		Entries:  entries,
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
