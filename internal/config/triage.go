package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// TriageLevel escalates new disputes whose amount or risk score crosses
// the configured threshold. A zero threshold disables that check.
type TriageLevel struct {
	Priority     string  `mapstructure:"priority"`
	MinAmount    float64 `mapstructure:"minAmount"`
	MinRiskScore float64 `mapstructure:"minRiskScore"`
}

type TriageConfig struct {
	Levels []TriageLevel `mapstructure:"levels"`
}

func DefaultTriageConfig() TriageConfig {
	return TriageConfig{
		Levels: []TriageLevel{
			{Priority: "HIGH", MinAmount: 10_000, MinRiskScore: 0.8},
			{Priority: "MEDIUM", MinAmount: 1_000, MinRiskScore: 0.5},
		},
	}
}

// Classify returns the priority of the first level the dispute crosses,
// or "" when no level applies.
func (c TriageConfig) Classify(amount float64, riskScore *float64) string {
	for _, level := range c.Levels {
		if level.MinAmount > 0 && amount >= level.MinAmount {
			return level.Priority
		}
		if level.MinRiskScore > 0 && riskScore != nil && *riskScore >= level.MinRiskScore {
			return level.Priority
		}
	}
	return ""
}

type TriageConfigHolder struct {
	current atomic.Value // holds TriageConfig
}

func NewTriageConfigHolder() (*TriageConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("triage")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/billforge/config") // Volume-mounted config
	v.AddConfigPath("/etc/billforge")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("BILLFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultTriageConfig()
		v.SetDefault("triage.levels", defaults.Levels)
	}

	var cfg TriageConfig
	if err := v.UnmarshalKey("triage", &cfg); err != nil {
		return nil, err
	}
	if err := validateTriageConfig(cfg); err != nil {
		return nil, err
	}

	holder := &TriageConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated TriageConfig
		if err := v.UnmarshalKey("triage", &updated); err != nil {
			log.Printf("[triage-config] reload failed: %v", err)
			return
		}
		if err := validateTriageConfig(updated); err != nil {
			log.Printf("[triage-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[triage-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *TriageConfigHolder) Get() TriageConfig {
	return h.current.Load().(TriageConfig)
}

func validateTriageConfig(cfg TriageConfig) error {
	for _, level := range cfg.Levels {
		switch strings.ToUpper(level.Priority) {
		case "LOW", "MEDIUM", "HIGH":
		default:
			return errors.New("triage.levels priority must be LOW, MEDIUM or HIGH")
		}
	}
	return nil
}
