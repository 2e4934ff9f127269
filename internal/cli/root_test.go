package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipsApp(t *testing.T) {
	tests := []struct {
		cmdName  string
		expected bool
	}{
		{"version", true},
		{"help", true},
		{"completion", true},
		{cobra.ShellCompRequestCmd, true},
		{"deploy", false},
		{"run", false},
		{"list", false},
	}

	for _, tt := range tests {
		t.Run(tt.cmdName, func(t *testing.T) {
			assert.Equal(t, tt.expected, skipsApp(&cobra.Command{Use: tt.cmdName}))
		})
	}
}

func TestBindGlobalFlags(t *testing.T) {
	root := NewRootCmd()
	require.NoError(t, root.PersistentFlags().Parse([]string{"--network", "sepolia", "--yes", "--non-interactive"}))

	v := viper.New()
	bindGlobalFlags(v, root)

	assert.Equal(t, "sepolia", v.GetString("network"))
	assert.True(t, v.GetBool("yes"))
	assert.True(t, v.GetBool("non_interactive"))
	assert.False(t, v.IsSet("debug"))
	assert.False(t, v.IsSet("build"))
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"deploy", "run", "address", "ledger", "networks", "links", "version"})

	ledger, _, err := root.Find([]string{"ledger", "prune"})
	require.NoError(t, err)
	assert.Equal(t, "prune", ledger.Name())
}

func TestVersionCmd(t *testing.T) {
	run := func(t *testing.T, args ...string) string {
		t.Helper()
		root := NewRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{"version"}, args...))
		require.NoError(t, root.Execute())
		return out.String()
	}

	t.Run("short", func(t *testing.T) {
		assert.Equal(t, "dev\n", run(t, "--short"))
	})

	t.Run("build details", func(t *testing.T) {
		Commit = "abc1234"
		t.Cleanup(func() { Commit = "" })

		out := run(t)
		assert.True(t, strings.HasPrefix(out, "catapult dev (commit abc1234, go"), out)
		assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
	})
}

func TestParseArgs(t *testing.T) {
	values := parseArgs([]string{
		"Token A",
		"1e24",
		"@WETH9",
		`["0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "@Router"]`,
		`{recipient: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", bps: 30}`,
		"[not yaml",
	})

	require.Len(t, values, 6)
	assert.Equal(t, "Token A", values[0])
	assert.Equal(t, "1e24", values[1])
	assert.Equal(t, "@WETH9", values[2])
	assert.Equal(t, []any{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "@Router"}, values[3])
	assert.Equal(t, map[string]any{"recipient": "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "bps": 30}, values[4])
	assert.Equal(t, "[not yaml", values[5])
}
