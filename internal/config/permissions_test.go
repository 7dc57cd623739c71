package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPermissions(t *testing.T) {
	p, err := LoadPermissionConfig("")
	require.NoError(t, err)

	assert.True(t, p.Allows("ADMIN", "products.delete"))
	assert.True(t, p.Allows("manager", "tax.create"))
	assert.False(t, p.Allows("MANAGER", "pos.delete"))
	assert.True(t, p.Allows("STAFF", "orders.edit"))
	assert.False(t, p.Allows("STAFF", "products.delete"))
	assert.False(t, p.Allows("USER", "products.index"))
	assert.False(t, p.Allows("GHOST", "products.index"))
}

func TestPermissionsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  STAFF:\n    - reviews.*\n"), 0o644))

	p, err := LoadPermissionConfig(path)
	require.NoError(t, err)
	assert.True(t, p.Allows("STAFF", "reviews.delete"))
	assert.False(t, p.Allows("STAFF", "orders.index"))
}

func TestNilPermissionConfigDeniesEverything(t *testing.T) {
	var p *PermissionConfig
	assert.False(t, p.Allows("ADMIN", "products.index"))
}

func TestReplaceSwapsRoles(t *testing.T) {
	p, err := LoadPermissionConfig("")
	require.NoError(t, err)
	p.Replace(map[string][]string{"STAFF": {"*"}})
	assert.True(t, p.Allows("STAFF", "pos.delete"))
	assert.False(t, p.Allows("ADMIN", "products.index"))
}

func TestWatchReloadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  STAFF: []\n"), 0o644))
	p, err := LoadPermissionConfig(path)
	require.NoError(t, err)

	done := make(chan struct{})
	defer close(done)
	require.NoError(t, p.Watch(path, done))
	assert.False(t, p.Allows("STAFF", "tax.index"))

	require.NoError(t, os.WriteFile(path, []byte("roles:\n  STAFF:\n    - tax.*\n"), 0o644))
	assert.Eventually(t, func() bool { return p.Allows("STAFF", "tax.index") }, 2*time.Second, 20*time.Millisecond)
}

func TestWatchFollowsRenamedSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  STAFF: []\n"), 0o644))
	p, err := LoadPermissionConfig(path)
	require.NoError(t, err)

	done := make(chan struct{})
	defer close(done)
	require.NoError(t, p.Watch(path, done))

	save := func(body string) {
		tmp := filepath.Join(dir, ".perms.yaml.swp")
		require.NoError(t, os.WriteFile(tmp, []byte(body), 0o644))
		require.NoError(t, os.Rename(tmp, path))
	}

	save("roles:\n  STAFF:\n    - tax.*\n")
	assert.Eventually(t, func() bool { return p.Allows("STAFF", "tax.index") }, 2*time.Second, 20*time.Millisecond)

	// the original inode is gone; a second save must still be seen
	save("roles:\n  STAFF:\n    - shipping.*\n")
	assert.Eventually(t, func() bool {
		return p.Allows("STAFF", "shipping.index") && !p.Allows("STAFF", "tax.index")
	}, 2*time.Second, 20*time.Millisecond)

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("roles: {"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.True(t, p.Allows("STAFF", "shipping.index"))
}
