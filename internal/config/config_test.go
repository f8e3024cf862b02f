package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_WritesDefaultConfig(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "config.yaml")

	store, err := NewStore(NewYAML(filePath))
	require.NoError(t, err)

	_, err = os.Stat(filePath)
	require.NoError(t, err)

	cfg, err := store.GetConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Outputs, 1)
	assert.Equal(t, "headless-1", cfg.Outputs[0].Name)
	assert.Equal(t, 1920, cfg.Outputs[0].Width)
	assert.Equal(t, 1080, cfg.Outputs[0].Height)
}

func TestStore_UpdateConfigRoundTrip(t *testing.T) {
	drivers := map[string]Driver{
		"yaml": NewYAML(filepath.Join(t.TempDir(), "config.yaml")),
		"json": NewJSON(filepath.Join(t.TempDir(), "config.json")),
	}

	for name, driver := range drivers {
		t.Run(name, func(t *testing.T) {
			store, err := NewStore(driver)
			require.NoError(t, err)

			err = store.UpdateConfig(func(cfg Config) (Config, error) {
				cfg.Outputs = append(cfg.Outputs, Output{Name: "headless-2", Width: 1280, Height: 720, Scale: 2})
				return cfg, nil
			})
			require.NoError(t, err)

			cfg, err := store.GetConfig()
			require.NoError(t, err)
			require.Len(t, cfg.Outputs, 2)
			assert.Equal(t, "headless-2", cfg.Outputs[1].Name)
			assert.Equal(t, float64(2), cfg.Outputs[1].Scale)
		})
	}
}

func TestNormalize(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(filePath, []byte("outputs:\n  - name: headless-1\n    width: 1920\n    height: 1080\n"), 0644)
	require.NoError(t, err)

	store, err := NewStore(NewYAML(filePath))
	require.NoError(t, err)

	require.NoError(t, Normalize(store))

	cfg, err := store.GetConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Outputs, 1)
	assert.NotEmpty(t, cfg.Outputs[0].UUID)
	assert.Equal(t, float64(1), cfg.Outputs[0].Scale)

	// Normalize is stable, the UUID does not change on a second run.
	uuid := cfg.Outputs[0].UUID
	require.NoError(t, Normalize(store))
	cfg, err = store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, uuid, cfg.Outputs[0].UUID)
}

func TestYAML_ReadMissingFileReturnsDefaults(t *testing.T) {
	driver := NewYAML(filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := driver.Read()
	require.NoError(t, err)
	assert.Equal(t, defaultConfig, cfg)
}

func TestYAML_ReadMalformedFileErrors(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte("{not yaml"), 0644))

	_, err := NewYAML(filePath).Read()
	assert.Error(t, err)
}
