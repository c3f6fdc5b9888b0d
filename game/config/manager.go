package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhadley519/kulki-too/game/engine"
	"github.com/dhadley519/kulki-too/game/service"
)

// DefaultConfigName is the configuration new sessions use when none is named
const DefaultConfigName = "classic"

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager loads board configurations from a directory of JSON files and
// keeps the parsed results cached by config ID.
type Manager struct {
	configDir     string
	defaultConfig *engine.BoardConfig
	configs       map[string]*engine.BoardConfig
	mu            sync.RWMutex
}

// NewManager creates a manager over configDir, which must exist
func NewManager(configDir string) (*Manager, error) {
	info, err := os.Stat(configDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.BoardConfig),
	}
	m.defaultConfig = m.pickDefault()
	return m, nil
}

// configID strips the .json extension so "classic" and "classic.json" share a cache entry
func configID(name string) string {
	return strings.TrimSuffix(name, ".json")
}

// LoadConfig returns the configuration with the given ID
func (m *Manager) LoadConfig(name string) (*engine.BoardConfig, error) {
	id := configID(name)

	m.mu.RLock()
	config, ok := m.configs[id]
	m.mu.RUnlock()
	if ok {
		return config, nil
	}

	config, err := m.readConfig(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.configs[id]; ok {
		return cached, nil
	}
	m.configs[id] = config
	return config, nil
}

func (m *Manager) readConfig(id string) (*engine.BoardConfig, error) {
	data, err := os.ReadFile(filepath.Join(m.configDir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateBoardConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &config, nil
}

// ListConfigs describes every valid configuration in the directory, sorted by ID.
// Files that fail to load are left out.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	configs := []*service.ConfigInfo{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		id := configID(entry.Name())
		config, err := m.LoadConfig(id)
		if err != nil {
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Width:       config.Width,
			Depth:       config.Depth,
			Colors:      config.Colors,
			EnforcePath: config.EnforcePath,
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault makes the named configuration the default
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache forgets every cached configuration and picks the default again
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.BoardConfig)
	m.mu.Unlock()

	def := m.pickDefault()

	m.mu.Lock()
	m.defaultConfig = def
	m.mu.Unlock()
}

// ReloadConfig drops a cached configuration and loads it again from disk
func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	delete(m.configs, configID(name))
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

// Count returns the number of cached configurations
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

// pickDefault prefers classic, then the first loadable file, then the built-in board
func (m *Manager) pickDefault() *engine.BoardConfig {
	if config, err := m.LoadConfig(DefaultConfigName); err == nil {
		return config
	}

	infos, err := m.ListConfigs()
	if err == nil && len(infos) > 0 {
		if config, err := m.LoadConfig(infos[0].ConfigID); err == nil {
			return config
		}
	}

	return createMinimalConfig()
}

// SaveConfig validates config and writes it as <name>.json
func (m *Manager) SaveConfig(name string, config *engine.BoardConfig) error {
	id := configID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.configDir, id+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()
	return nil
}

func createMinimalConfig() *engine.BoardConfig {
	config := engine.DefaultBoardConfig()
	config.Name = "default"
	config.Description = "Built-in 9x9 board used when no configuration files are available"
	return config
}
