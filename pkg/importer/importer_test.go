package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldForHeader(t *testing.T) {
	mapping := defaultMapping()

	tests := []struct {
		header string
		want   string
	}{
		{"item_id", "item_id"},
		{"Item ID", "item_id"},
		{"ASSET TAG", "item_id"},
		{"  name  ", "name"},
		{"Description", "name"},
		{"Type", "category"},
		{"serial_number", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapping.fieldForHeader(tt.header), "header %q", tt.header)
	}
}

func TestLoadMappingConfigDefaults(t *testing.T) {
	cfg, err := loadMappingConfig("")
	require.NoError(t, err)
	assert.Equal(t, "General", cfg.DefaultCategory)
	assert.NotEmpty(t, cfg.Aliases["item_id"])
}

func TestLoadMappingConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	content := `
version: 1
aliases:
  item_id: ["inventarnummer"]
default_category: Lab
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadMappingConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Lab", cfg.DefaultCategory)
	assert.Equal(t, "item_id", cfg.fieldForHeader("Inventarnummer"))
}

func TestLoadMappingConfigMissingFile(t *testing.T) {
	_, err := loadMappingConfig("/nonexistent/mapping.yaml")
	assert.Error(t, err)
}
