package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/pkg/logger"
	"github.com/maratona/rating/pkg/metrics"
)

// JSONStore persists the ledger as one JSON file.
type JSONStore struct {
	path   string
	pretty bool
	log    logger.Logger
}

// NewJSONStore creates a store writing to the given path.
func NewJSONStore(path string, opts ...Option) *JSONStore {
	s := &JSONStore{
		path: path,
		log:  logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and decodes the ledger document.
func (s *JSONStore) Load(ctx context.Context) (*model.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.RecordLedgerLoad("missing")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		metrics.RecordLedgerLoad("error")
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var ledger model.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		metrics.RecordLedgerLoad("error")
		// The broken document survives at <path>.corrupt; Save writes fresh.
		aside := s.path + ".corrupt"
		if renameErr := os.Rename(s.path, aside); renameErr == nil {
			s.log.Warn(ctx, "corrupt ledger set aside", logger.String("path", aside))
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	metrics.RecordLedgerLoad("ok")
	s.log.Info(ctx, "ledger loaded",
		logger.String("path", s.path),
		logger.Int("competitors", len(ledger.Competitors)),
		logger.Int("events", len(ledger.Events)),
	)
	return &ledger, nil
}

// Save encodes the ledger and swaps it into place via a temp file + rename,
// so a crash mid-write never corrupts the previous document.
func (s *JSONStore) Save(ctx context.Context, ledger *model.Ledger) error {
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(ledger, "", "  ")
	} else {
		data, err = json.Marshal(ledger)
	}
	if err != nil {
		metrics.RecordLedgerSave("error")
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		metrics.RecordLedgerSave("error")
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		metrics.RecordLedgerSave("error")
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		metrics.RecordLedgerSave("error")
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		metrics.RecordLedgerSave("error")
		return fmt.Errorf("replace ledger: %w", err)
	}

	metrics.RecordLedgerSave("ok")
	s.log.Debug(ctx, "ledger saved",
		logger.String("path", s.path),
		logger.Int("bytes", len(data)),
	)
	return nil
}
