package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const (
	// ExcludePattern drops test and debug artifacts from resolution
	ExcludePattern = "Test|test|dbg"
	// IncludePattern keeps only JSON artifacts
	IncludePattern = `\.json$`
)

// LinkReferenceResolver builds the contract -> libraries map from artifacts
type LinkReferenceResolver struct {
	scanner *Scanner
	log     *slog.Logger
}

// NewLinkReferenceResolver creates a new resolver
func NewLinkReferenceResolver(scanner *Scanner, log *slog.Logger) *LinkReferenceResolver {
	return &LinkReferenceResolver{scanner: scanner, log: log}
}

// Resolve scans root and returns the link references of every contract that
// declares at least one. Files that fail to parse are logged and skipped.
func (r *LinkReferenceResolver) Resolve(root string) (domain.LinkReferences, error) {
	files, err := r.scanner.Scan(root, ExcludePattern, IncludePattern)
	if err != nil {
		return nil, err
	}

	refs := make(domain.LinkReferences)
	for _, path := range files {
		name, libs, err := parseLinkReferences(path)
		if err != nil {
			r.log.Warn("skipping artifact while parsing linked libraries",
				"error", &domain.ArtifactParseError{Path: path, Err: err})
			continue
		}
		if name == "" || len(libs) == 0 {
			continue
		}
		refs[name] = libs
	}

	r.log.Debug("resolved link references", "root", root, "files", len(files), "linked", len(refs))
	return refs, nil
}

// parseLinkReferences reads an artifact and returns its contract name and the
// library names of its link references in document order.
func parseLinkReferences(path string) (string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var artifact struct {
		ContractName   string          `json:"contractName"`
		LinkReferences json.RawMessage `json:"linkReferences"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return "", nil, err
	}

	libs, err := orderedLibraryNames(artifact.LinkReferences)
	if err != nil {
		return "", nil, fmt.Errorf("invalid linkReferences: %w", err)
	}
	return artifact.ContractName, libs, nil
}

// orderedLibraryNames flattens {source: {library: slots}} into library names.
// encoding/json maps do not keep key order, so the object is walked token by token.
func orderedLibraryNames(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var libs []string
	for dec.More() {
		// source file key
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("expected library name, got %v", tok)
			}
			libs = append(libs, name)

			// skip the slot list
			var slots json.RawMessage
			if err := dec.Decode(&slots); err != nil {
				return nil, err
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return libs, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

var _ usecase.LinkReferenceResolver = (*LinkReferenceResolver)(nil)
