package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	School struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"school"`
	Debug bool `json:"debug"`
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "app.json5"), []byte(`{
		// comments are allowed
		school: { id: 1232, name: "UNC" },
	}`), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "app.local.json5"), []byte(`{
		school: { id: 1074 },
		debug: true,
	}`), 0644)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.Equal(t, 1074, cfg.School.ID)
	require.Equal(t, "UNC", cfg.School.Name)
	require.True(t, cfg.Debug)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "missing.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestOpenDBMemory(t *testing.T) {
	db, err := Database{File: ":memory:"}.OpenDB()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
}

func TestOpenDBRequiresPath(t *testing.T) {
	_, err := Database{}.OpenDB()
	require.Error(t, err)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "app.local.json5"), []byte(`{ debug: true }`), 0644)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "app.json5"))
	require.NoError(t, err)
	require.True(t, cfg.Debug)
}

func TestLocalName(t *testing.T) {
	require.Equal(t, filepath.Join("a", "b.local.json5"), localName(filepath.Join("a", "b.json5")))
	require.Equal(t, "config.local", localName("config"))
}
