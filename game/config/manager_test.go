package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dhadley519/kulki-too/game/engine"
)

func createValidConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Width:       9,
		Depth:       9,
		Colors:      6,
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.BoardConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("classic is the default", func(t *testing.T) {
		dir := t.TempDir()
		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)
		other := createValidConfig()
		other.Name = "Another"
		writeConfigFile(t, dir, "another", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected Classic default, got %s", manager.GetDefault().Name)
		}
	})

	t.Run("first config without classic", func(t *testing.T) {
		dir := t.TempDir()
		config := createValidConfig()
		config.Name = "Alpha"
		writeConfigFile(t, dir, "alpha", config)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Alpha" {
			t.Errorf("Expected Alpha default, got %s", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got: %v", err)
		}
		def := manager.GetDefault()
		if def == nil {
			t.Fatal("Expected default config to be available")
		}
		if err := engine.ValidateBoardConfig(def); err != nil {
			t.Errorf("Built-in default is invalid: %v", err)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	small := createValidConfig()
	small.Name = "Small"
	small.Width, small.Depth = 7, 7
	writeConfigFile(t, dir, "small", small)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("small")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Width != 7 || config.Depth != 7 {
			t.Errorf("Expected 7x7, got %dx%d", config.Width, config.Depth)
		}
	})

	t.Run("extension shares the cache entry", func(t *testing.T) {
		a, err := manager.LoadConfig("small")
		if err != nil {
			t.Fatal(err)
		}
		b, err := manager.LoadConfig("small.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if a != b {
			t.Error("Expected the same cached config for both names")
		}
	})

	t.Run("non-existent config", func(t *testing.T) {
		if _, err := manager.LoadConfig("non-existent"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": "x", "description": "y", "width": 2, "depth": 9, "colors": 6}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := manager.LoadConfig("invalid"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": "Malformed", invalid json}`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := manager.LoadConfig("malformed"); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"classic", "small", "large"} {
		config := createValidConfig()
		config.Name = name
		writeConfigFile(t, dir, name, config)
	}
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	want := []string{"classic", "large", "small"}
	if len(infos) != len(want) {
		t.Fatalf("Expected %d configs, got %d", len(want), len(infos))
	}
	for i, id := range want {
		if infos[i].ConfigID != id {
			t.Errorf("Config %d: expected %s, got %s", i, id, infos[i].ConfigID)
		}
		if infos[i].Filename != id+".json" {
			t.Errorf("Config %d: unexpected filename %s", i, infos[i].Filename)
		}
		if infos[i].Width != 9 || infos[i].Colors != 6 {
			t.Errorf("Config %d: unexpected dimensions %+v", i, infos[i])
		}
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	config := createValidConfig()
	config.Name = "Saved"
	config.EnforcePath = true
	if err := manager.SaveConfig("saved", config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("Expected saved.json on disk: %v", err)
	}

	manager.RefreshCache()
	loaded, err := manager.LoadConfig("saved")
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.Name != "Saved" || !loaded.EnforcePath {
		t.Errorf("Unexpected saved config %+v", loaded)
	}

	tests := []struct {
		name   string
		id     string
		config *engine.BoardConfig
	}{
		{"invalid config", "bad", &engine.BoardConfig{Name: "bad"}},
		{"path in name", "../escape", createValidConfig()},
		{"hidden name", ".hidden", createValidConfig()},
		{"empty name", "", createValidConfig()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := manager.SaveConfig(tt.id, tt.config); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	large := createValidConfig()
	large.Name = "Large"
	large.Width = 15
	writeConfigFile(t, dir, "large", large)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := manager.SetDefault("large"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Width != 15 {
		t.Errorf("Expected large default, got %+v", manager.GetDefault())
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig()
	config.Colors = 4
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if loaded.Colors != 4 {
		t.Errorf("Expected 4 colors, got %d", loaded.Colors)
	}

	config.Colors = 8
	writeConfigFile(t, dir, "changeable", config)
	if err := manager.ReloadConfig("changeable"); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Colors != 8 {
		t.Errorf("Expected 8 colors after reload, got %d", reloaded.Colors)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 5 {
		t.Errorf("Expected 5 configs in cache, got %d", manager.Count())
	}
}
