package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const (
	fileSuffix = ".deployment.json"
	// ledgers written by earlier tooling; read when no current file exists
	legacyFileSuffix = ".deployment.js"
)

// FileRepository stores one JSON ledger file per network
type FileRepository struct {
	dir string
	log *slog.Logger
}

// NewFileRepository creates a ledger repository rooted at the configured deployments dir
func NewFileRepository(cfg *config.RuntimeConfig, log *slog.Logger) *FileRepository {
	return &FileRepository{dir: cfg.DeploymentsDir, log: log}
}

// Path returns the ledger file path for a network
func (r *FileRepository) Path(network string) string {
	return filepath.Join(r.dir, network+fileSuffix)
}

// Load reads the ledger of a network. A legacy <network>.deployment.js file
// is read when the current file does not exist; Save always writes the current one.
func (r *FileRepository) Load(ctx context.Context, network string) (*domain.Ledger, error) {
	path := r.Path(network)
	ledger := domain.NewLedger(network)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		legacy := filepath.Join(r.dir, network+legacyFileSuffix)
		if legacyData, legacyErr := os.ReadFile(legacy); !os.IsNotExist(legacyErr) {
			r.log.Debug("reading legacy ledger", "network", network, "path", legacy)
			path, data, err = legacy, legacyData, legacyErr
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug("no ledger found, starting empty", "network", network, "path", path)
			return ledger, nil
		}
		return ledger, &domain.LedgerLoadError{Network: network, Path: path, Err: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return ledger, &domain.LedgerLoadError{Network: network, Path: path, Err: err}
	}

	for name, msg := range raw {
		rec, err := models.UnmarshalRecord(msg)
		if err != nil {
			// a single bad record invalidates the file
			return domain.NewLedger(network), &domain.LedgerLoadError{Network: network, Path: path, Err: err}
		}
		ledger.Put(name, rec)
	}

	r.log.Debug("loaded ledger", "network", network, "records", ledger.Len())
	return ledger, nil
}

// Save writes the ledger atomically, creating the deployments dir when missing
func (r *FileRepository) Save(ctx context.Context, ledger *domain.Ledger) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}

	raw := make(map[string]json.RawMessage, ledger.Len())
	for name, rec := range ledger.Records() {
		msg, err := models.MarshalRecord(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record %s: %w", name, err)
		}
		raw[name] = msg
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	path := r.Path(ledger.Network())
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}

var _ usecase.LedgerRepository = (*FileRepository)(nil)
