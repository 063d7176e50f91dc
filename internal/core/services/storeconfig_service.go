package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"tienda-console/internal/adapters/persistence/repositories"
	"tienda-console/internal/core/domain"
	"tienda-console/internal/pkg/validation"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// StoreConfigKey is the storage key holding the whole configuration as JSON
const StoreConfigKey = "storeConfig"

//go:embed defaults.yaml
var embeddedDefaults []byte

// StoreConfigService reads and writes the store configuration
type StoreConfigService struct {
	store    repositories.KeyValueStore
	defaults domain.StoreConfig
	log      logrus.FieldLogger
}

// NewStoreConfigService loads the embedded defaults and, when overridePath is
// set, merges that YAML file over them
func NewStoreConfigService(store repositories.KeyValueStore, overridePath string, log logrus.FieldLogger) (*StoreConfigService, error) {
	var defaults domain.StoreConfig
	if err := yaml.Unmarshal(embeddedDefaults, &defaults); err != nil {
		return nil, fmt.Errorf("parse embedded store defaults: %w", err)
	}
	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read store defaults %s: %w", overridePath, err)
		}
		if err := yaml.Unmarshal(data, &defaults); err != nil {
			return nil, fmt.Errorf("parse store defaults %s: %w", overridePath, err)
		}
	}
	if err := validation.Struct(defaults); err != nil {
		return nil, fmt.Errorf("store defaults: %w", err)
	}
	return &StoreConfigService{store: store, defaults: defaults, log: log.WithField("component", "storeconfig")}, nil
}

// Defaults returns a copy of the default configuration
func (s *StoreConfigService) Defaults() domain.StoreConfig {
	cfg := s.defaults
	cfg.Caracteristicas = slices.Clone(s.defaults.Caracteristicas)
	cfg.Categorias = slices.Clone(s.defaults.Categorias)
	return cfg
}

// Get returns the stored configuration, initializing it from the defaults on
// first load. A corrupt stored value falls back to the defaults.
func (s *StoreConfigService) Get(ctx context.Context) (domain.StoreConfig, error) {
	raw, ok, err := s.store.Get(ctx, StoreConfigKey)
	if err != nil {
		return domain.StoreConfig{}, err
	}
	if !ok {
		cfg := s.Defaults()
		if err := s.write(ctx, cfg); err != nil {
			return domain.StoreConfig{}, err
		}
		return cfg, nil
	}

	cfg := s.Defaults()
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.log.WithError(err).Warn("⚠️ stored store configuration is corrupt, using defaults")
		return s.Defaults(), nil
	}
	return cfg, nil
}

// Save overwrites the whole configuration
func (s *StoreConfigService) Save(ctx context.Context, cfg domain.StoreConfig) error {
	if err := validation.Struct(cfg); err != nil {
		return err
	}
	return s.write(ctx, cfg)
}

// SaveSection replaces one named section with raw JSON and stores the result
func (s *StoreConfigService) SaveSection(ctx context.Context, name string, raw json.RawMessage) (domain.StoreConfig, error) {
	if !slices.Contains(domain.StoreConfigSections, name) {
		return domain.StoreConfig{}, fmt.Errorf("%w: %s", domain.ErrUnknownSection, name)
	}
	cfg, err := s.Get(ctx)
	if err != nil {
		return domain.StoreConfig{}, err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return domain.StoreConfig{}, err
	}
	sections := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &sections); err != nil {
		return domain.StoreConfig{}, err
	}
	sections[name] = raw

	merged, err := json.Marshal(sections)
	if err != nil {
		return domain.StoreConfig{}, err
	}
	var next domain.StoreConfig
	if err := json.Unmarshal(merged, &next); err != nil {
		return domain.StoreConfig{}, domain.NewValidationError(name, "Formato de sección no válido")
	}
	if err := s.Save(ctx, next); err != nil {
		return domain.StoreConfig{}, err
	}
	s.log.WithField("section", name).Info("✅ store configuration section saved")
	return next, nil
}

// Reset erases the stored configuration; the next Get starts from the defaults
func (s *StoreConfigService) Reset(ctx context.Context) (domain.StoreConfig, error) {
	if err := s.store.Remove(ctx, StoreConfigKey); err != nil {
		return domain.StoreConfig{}, err
	}
	s.log.Info("🗑️ store configuration reset to defaults")
	return s.Defaults(), nil
}

func (s *StoreConfigService) write(ctx context.Context, cfg domain.StoreConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, StoreConfigKey, string(data))
}
