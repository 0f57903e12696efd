package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HavvokLab/solix-setup/config"
	"github.com/HavvokLab/solix-setup/flow"
	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/setting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "database:\n  path: " + filepath.Join(dir, "test.db") + "\n" +
		"setup:\n  allow_test_mode: true\n  examples_folder: " + filepath.Join(dir, "examples") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	conf, err := config.Load(path)
	require.NoError(t, err)
	return conf
}

func TestNew(t *testing.T) {
	conf := newTestConfig(t)

	a, err := New(conf)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	assert.Nil(t, a.Redis)
	assert.Nil(t, a.SessionCache)
	assert.Len(t, a.SolixOptions(), 4)
	assert.True(t, a.Builder.AllowTestMode)

	folders, err := a.ExampleFolders.ListFolders()
	require.NoError(t, err)
	assert.Empty(t, folders)
	assert.DirExists(t, conf.Setup.ExamplesFolder)

	f := a.ConfigFlow()
	assert.Equal(t, flow.StateCollectCredentials, f.State())
	result, err := f.Start()
	require.NoError(t, err)
	assert.Equal(t, flow.StepUser, result.StepID)

	entry := &model.ConfigEntry{Domain: setting.Domain, UniqueID: "a@x.com", Title: "A", Options: model.DefaultOptions()}
	require.NoError(t, a.EntryRepo.Create(entry))
	assert.Equal(t, flow.StateEditOptions, a.OptionsFlow(entry).State())
	assert.NotNil(t, a.ReloadService())
}
