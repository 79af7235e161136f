// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFamilyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "families.yaml")
	require.NoError(t, os.WriteFile(path, []byte("families:\n  - RTU\n  - MAU\n  - AHU\n"), 0o644))

	families, err := LoadFamilyOrder(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"RTU", "MAU", "AHU"}, families)

	o := NewFamilyOrder(families)
	assert.True(t, o.Less("RTU-1", "MAU-1"))
}

func TestLoadFamilyOrderRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "families.yaml")
	require.NoError(t, os.WriteFile(path, []byte("families: []\n"), 0o644))

	_, err := LoadFamilyOrder(path)
	assert.Error(t, err)
}

func TestLoadFamilyOrderMissingFile(t *testing.T) {
	_, err := LoadFamilyOrder(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
