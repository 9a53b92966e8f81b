package config

import "time"

const (
	DefaultSource   = "./docs"
	DefaultOutput   = "./site"
	DefaultWorkers  = 4
	DefaultDebounce = 500 * time.Millisecond
)

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}
