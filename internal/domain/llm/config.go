package llm

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Config holds the generation parameters for a single provider call. Each
// call snapshots the config once at the start of Generate, so a call is
// internally consistent even when an admin update lands mid-flight.
type Config struct {
	ModelID         string        `json:"model_id"`
	Temperature     float64       `json:"temperature"`
	TopK            int           `json:"top_k"`
	TopP            float64       `json:"top_p"`
	MaxOutputTokens int           `json:"max_output_tokens"`
	Timeout         time.Duration `json:"timeout"`
	MaxRetries      int           `json:"max_retries"`
	RetryBaseDelay  time.Duration `json:"retry_base_delay"`
}

// Validate checks the parameter ranges the provider accepts.
func (c Config) Validate() error {
	if c.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d", c.TopK)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be in [0, 1], got %v", c.TopP)
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("max_output_tokens must be positive, got %d", c.MaxOutputTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", c.MaxRetries)
	}
	if c.RetryBaseDelay < 0 {
		return fmt.Errorf("retry_base_delay must be non-negative, got %v", c.RetryBaseDelay)
	}
	return nil
}

// ConfigStore owns the process-wide generation config with copy-on-write
// semantics: readers snapshot an immutable value, writers swap the whole
// config atomically. Updates take effect for subsequent calls only.
type ConfigStore struct {
	current atomic.Pointer[Config]
}

// NewConfigStore seeds the store with an initial config.
func NewConfigStore(initial Config) (*ConfigStore, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("initial provider config: %w", err)
	}
	store := &ConfigStore{}
	store.current.Store(&initial)
	return store, nil
}

// Snapshot returns the current config by value.
func (s *ConfigStore) Snapshot() Config {
	return *s.current.Load()
}

// Update validates and atomically replaces the config.
func (s *ConfigStore) Update(next Config) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.current.Store(&next)
	return nil
}
