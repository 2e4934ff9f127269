package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const (
	artifactExclude = `\.dbg\.json$`
	maxSuggestions  = 3
)

// Repository discovers and indexes artifacts by contract name
type Repository struct {
	root      string
	scanner   *Scanner
	log       *slog.Logger
	mu        sync.RWMutex
	contracts map[string][]*models.Contract // key: contract name
	indexed   bool
}

// NewRepository creates a new artifact repository rooted at the configured artifacts dir
func NewRepository(cfg *config.RuntimeConfig, scanner *Scanner, log *slog.Logger) *Repository {
	return &Repository{
		root:      cfg.ArtifactsDir,
		scanner:   scanner,
		log:       log,
		contracts: make(map[string][]*models.Contract),
	}
}

// Index discovers all artifacts. It runs once; Reset forces a rescan.
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	files, err := r.scanner.Scan(r.root, artifactExclude, IncludePattern)
	if err != nil {
		return err
	}

	r.contracts = make(map[string][]*models.Contract)
	for _, path := range files {
		contract, err := loadArtifact(path)
		if err != nil {
			r.log.Warn("skipping artifact", "error", &domain.ArtifactParseError{Path: path, Err: err})
			continue
		}
		if contract == nil {
			continue
		}
		r.contracts[contract.Name] = append(r.contracts[contract.Name], contract)
	}

	r.log.Debug("indexed artifacts", "root", r.root, "contracts", len(r.contracts))
	r.indexed = true
	return nil
}

// Reset drops the index so the next lookup rescans the artifact directory
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = false
}

// loadArtifact reads one artifact. Files that are valid JSON but not
// contract artifacts (no contractName) yield nil.
func loadArtifact(path string) (*models.Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, err
	}
	if artifact.ContractName == "" {
		return nil, nil
	}

	return &models.Contract{
		Name:         artifact.ContractName,
		ArtifactPath: path,
		Artifact:     &artifact,
	}, nil
}

// GetContract returns the artifact for a unit name
func (r *Repository) GetContract(ctx context.Context, name string) (*models.Contract, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.contracts[name]
	switch len(matches) {
	case 0:
		return nil, &domain.UnknownUnitError{Name: name, Suggestions: r.suggest(name)}
	case 1:
		return matches[0], nil
	default:
		paths := lo.Map(matches, func(c *models.Contract, _ int) string { return c.ArtifactPath })
		sort.Strings(paths)
		return nil, fmt.Errorf("multiple artifacts found for %s:\n  - %s", name, strings.Join(paths, "\n  - "))
	}
}

// ContractNames returns all indexed contract names in sorted order
func (r *Repository) ContractNames(ctx context.Context) ([]string, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.contracts)
	sort.Strings(names)
	return names, nil
}

// suggest returns the closest contract names to name. Caller holds the lock.
func (r *Repository) suggest(name string) []string {
	names := lo.Keys(r.contracts)
	sort.Strings(names)

	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		// fall back to case-insensitive substring matching
		lower := strings.ToLower(name)
		return lo.Slice(lo.Filter(names, func(n string, _ int) bool {
			return strings.Contains(strings.ToLower(n), lower) || strings.Contains(lower, strings.ToLower(n))
		}), 0, maxSuggestions)
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
