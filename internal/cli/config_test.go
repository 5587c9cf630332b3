package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/coglog/coglog/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigShow(t *testing.T) {
	tests := map[string]struct {
		args   []string
		decode func([]byte, any) error
	}{
		"yaml by default": {
			args:   []string{"config", "show"},
			decode: yaml.Unmarshal,
		},
		"json": {
			args:   []string{"config", "show", "--format", "json"},
			decode: json.Unmarshal,
		},
		"toml": {
			args:   []string{"config", "show", "-f", "toml"},
			decode: toml.Unmarshal,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := runCLI(t, "", "tag_prefix: v\nparallelism: 2\n", tt.args...)
			require.NoError(t, res.err, res.stderr)

			var view configView
			require.NoError(t, tt.decode([]byte(res.stdout), &view))
			assert.Equal(t, "v", view.TagPrefix)
			assert.Equal(t, "-", view.MonorepoSeparator)
			assert.Equal(t, 2, view.Parallelism)
			assert.Equal(t, "json", view.Format)
			assert.Equal(t, "Bug Fixes", view.CommitTypes["fix"])
		})
	}
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	res := runCLI(t, "", "parallelism: 0\n", "config", "show")
	require.Error(t, res.err)
	assert.Equal(t, ExitConfigurationError, ExitCode(res.err))
	assert.Contains(t, res.stderr, "Configuration Error")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".coglog", "config.yml")

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	require.NoError(t, Execute())
	assert.Contains(t, out.String(), "Created "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: path,
		UserConfigPath:    filepath.Join(t.TempDir(), "none.yml"),
	})
	require.NoError(t, err, "the template is a valid configuration")
	assert.Equal(t, 4, cfg.Parallelism)

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	err = Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"config", "init", "--config", path, "--force"})
	require.NoError(t, Execute())
}
