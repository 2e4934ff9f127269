package artifacts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const routerArtifact = `{
  "contractName": "Router",
  "sourceName": "contracts/Router.sol",
  "abi": [],
  "bytecode": "0x00",
  "linkReferences": {
    "contracts/libraries/Math.sol": {"Math": [{"start": 1, "length": 20}]},
    "contracts/libraries/Strings.sol": {"Strings": [{"start": 40, "length": 20}], "Bytes": []}
  }
}`

const mathArtifact = `{"contractName": "Math", "abi": [], "bytecode": "0x00", "linkReferences": {}}`

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "contracts/Router.sol/Router.json", routerArtifact)
	writeFile(t, root, "contracts/Router.sol/Router.dbg.json", "{}")
	writeFile(t, root, "contracts/test/Mock.sol/Mock.json", "{}")
	writeFile(t, root, "contracts/Math.sol/Math.json", mathArtifact)
	writeFile(t, root, "README.md", "artifacts")

	scanner := NewScanner(discardLogger())

	t.Run("exclude and include", func(t *testing.T) {
		files, err := scanner.Scan(root, ExcludePattern, IncludePattern)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"contracts/Math.sol/Math.json",
			"contracts/Router.sol/Router.json",
		}, relPaths(t, root, files))
	})

	t.Run("no patterns", func(t *testing.T) {
		files, err := scanner.Scan(root, "", "")
		require.NoError(t, err)
		assert.Len(t, files, 5)
	})

	t.Run("patterns ignore the root location", func(t *testing.T) {
		// t.TempDir paths contain the test name
		files, err := scanner.Scan(root, "Test", "")
		require.NoError(t, err)
		assert.Len(t, files, 5)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := scanner.Scan(filepath.Join(root, "missing"), "", "")
		assert.Error(t, err)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := scanner.Scan(root, "(", "")
		assert.ErrorContains(t, err, "exclude")
	})
}

func TestOrderedLibraryNames(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "empty", raw: "", want: nil},
		{name: "null", raw: "null", want: nil},
		{name: "empty object", raw: "{}", want: nil},
		{
			name: "document order across sources",
			raw:  `{"b.sol": {"Zeta": [], "Alpha": [{"start": 1, "length": 20}]}, "a.sol": {"Zeta": []}}`,
			want: []string{"Zeta", "Alpha", "Zeta"},
		},
		{name: "not an object", raw: `["Math"]`, wantErr: true},
		{name: "source not an object", raw: `{"a.sol": []}`, wantErr: true},
		{name: "truncated", raw: `{"a.sol": {"Math": [`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderedLibraryNames([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinkReferenceResolver_Resolve(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "contracts/Router.sol/Router.json", routerArtifact)
	writeFile(t, root, "contracts/Math.sol/Math.json", mathArtifact)
	writeFile(t, root, "contracts/Broken.sol/Broken.json", `{"contractName": "Broken", "linkReferences": `)
	writeFile(t, root, "contracts/test/RouterTest.sol/RouterTest.json",
		`{"contractName": "RouterTest", "linkReferences": {"x.sol": {"Math": []}}}`)

	resolver := NewLinkReferenceResolver(NewScanner(discardLogger()), discardLogger())
	refs, err := resolver.Resolve(root)
	require.NoError(t, err)

	assert.Equal(t, domain.LinkReferences{
		"Router": {"Math", "Strings", "Bytes"},
	}, refs)

	_, err = resolver.Resolve(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestRepository(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "contracts/Router.sol/Router.json", routerArtifact)
	writeFile(t, root, "contracts/Router.sol/Router.dbg.json", `{"_format": "hh-sol-dbg-1"}`)
	writeFile(t, root, "contracts/Math.sol/Math.json", mathArtifact)
	writeFile(t, root, "build-info/abc.json", `{"id": "abc"}`)
	writeFile(t, root, "contracts/Broken.sol/Broken.json", "{")

	ctx := context.Background()
	repo := NewRepository(&config.RuntimeConfig{ArtifactsDir: root}, NewScanner(discardLogger()), discardLogger())

	t.Run("lists contract names", func(t *testing.T) {
		names, err := repo.ContractNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Math", "Router"}, names)
	})

	t.Run("finds a contract", func(t *testing.T) {
		contract, err := repo.GetContract(ctx, "Router")
		require.NoError(t, err)
		assert.Equal(t, "Router", contract.Name)
		assert.Equal(t, "contracts/Router.sol", contract.Artifact.SourceName)
		assert.Len(t, contract.Artifact.LinkReferences, 2)
	})

	t.Run("unknown unit suggests close names", func(t *testing.T) {
		_, err := repo.GetContract(ctx, "Routr")
		require.ErrorIs(t, err, domain.ErrUnknownUnit)

		var unknown *domain.UnknownUnitError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, []string{"Router"}, unknown.Suggestions)
	})

	t.Run("duplicate names are ambiguous", func(t *testing.T) {
		writeFile(t, root, "contracts/other/Math.sol/Math.json", mathArtifact)
		repo.Reset()

		_, err := repo.GetContract(ctx, "Math")
		assert.ErrorContains(t, err, "multiple artifacts")
	})
}
