package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("endpoint", "", "")
	fs.String("db", "", "")
	fs.String("session", "", "")
	fs.StringP("format", "f", "json", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.Equal(t, DefaultSession, cfg.Session)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.Format)
	assert.Empty(t, cfg.Endpoint)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := "endpoint: https://file.example/graphql\nsession: from-file\ntimeout: 5s\npost_collection: blogPostCollection\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644))

	t.Setenv("SITE_GLUE_SESSION", "from-env")
	t.Setenv("SITE_GLUE_TOKEN", "tok")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--endpoint", "https://flag.example/graphql"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example/graphql", cfg.Endpoint, "flag beats file")
	assert.Equal(t, "from-env", cfg.Session, "env beats file")
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "blogPostCollection", cfg.PostCollection)
	assert.Equal(t, "json", cfg.Format, "unset flag keeps default")
}

func TestLoad_ExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_InvalidFormat(t *testing.T) {
	chdir(t, t.TempDir())
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"-f", "xml"}))

	_, err := Load("", fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
