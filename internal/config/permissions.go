package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	applog "shopfront/internal/log"
)

//go:embed permissions.yaml
var defaultPermissions []byte

type PermissionConfig struct {
	mu    sync.RWMutex
	Roles map[string][]string `yaml:"roles"`
}

func parsePermissions(data []byte) (map[string][]string, error) {
	var doc struct {
		Roles map[string][]string `yaml:"roles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Roles, nil
}

// LoadPermissionConfig reads the role table from path, or the built-in table
// when path is empty.
func LoadPermissionConfig(path string) (*PermissionConfig, error) {
	data := defaultPermissions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	roles, err := parsePermissions(data)
	if err != nil {
		return nil, err
	}
	return &PermissionConfig{Roles: roles}, nil
}

// Replace swaps the role table in place.
func (p *PermissionConfig) Replace(roles map[string][]string) {
	p.mu.Lock()
	p.Roles = roles
	p.mu.Unlock()
}

// Watch reloads the table whenever path changes. The directory is watched
// rather than the file so editors that save by renaming a temp file over
// path keep triggering reloads. A file that fails to parse leaves the
// current table in force. The watcher stops when done closes.
func (p *PermissionConfig) Watch(path string, done <-chan struct{}) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return err
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				p.reload(path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				applog.Error(nil, "permissions.watch.fail", err, map[string]any{"file": path})
			}
		}
	}()
	return nil
}

func (p *PermissionConfig) reload(path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		applog.Error(nil, "permissions.reload.fail", err, map[string]any{"file": path})
		return
	}
	roles, err := parsePermissions(b)
	if err != nil {
		applog.Error(nil, "permissions.reload.fail", err, map[string]any{"file": path})
		return
	}
	p.Replace(roles)
	applog.Info(nil, "permissions.reload", map[string]any{"file": path, "roles": len(roles)})
}

// Allows reports whether role may perform action ("products.delete").
func (p *PermissionConfig) Allows(role, action string) bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	resource, _, _ := strings.Cut(action, ".")
	for _, perm := range p.Roles[strings.ToUpper(role)] {
		switch perm {
		case "*", action, resource + ".*":
			return true
		}
	}
	return false
}
