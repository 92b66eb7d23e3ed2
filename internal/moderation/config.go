package moderation

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Thresholds holds the tunable decision cutoffs. The engine reads an
// immutable snapshot per decision and never mutates it in place.
type Thresholds struct {
	AutoRejectThreshold           float64 `json:"auto_reject_threshold"`
	HumanReviewThreshold          float64 `json:"human_review_threshold"`
	AutoApproveThreshold          float64 `json:"auto_approve_threshold"`
	RepeatOffenderStrikeThreshold int     `json:"repeat_offender_strike_threshold"`
	MinorsShadowModerationEnabled bool    `json:"minors_shadow_moderation_enabled"`
	MinorsRiskThreshold           float64 `json:"minors_risk_threshold"`
}

// LabelSets maps classifier label names onto the content flags the engine
// acts on. Matching is exact on the label name as returned by the classifier.
type LabelSets struct {
	Explicit   []string `json:"explicit"`
	Suggestive []string `json:"suggestive"`
	Weapons    []string `json:"weapons"`
	Minors     []string `json:"minors"`
}

// Config is the full moderation configuration loaded from JSON
type Config struct {
	Thresholds               Thresholds `json:"thresholds"`
	ProfanityList            []string   `json:"profanity_list"`
	RestrictedTags           []string   `json:"restricted_tags"`
	Labels                   LabelSets  `json:"labels"`
	MinLabelConfidence       float64    `json:"min_label_confidence"`       // 0-100, classifier floor
	ClassifierTimeoutSeconds int        `json:"classifier_timeout_seconds"` // bound on external classifier calls
}

// ClassifierTimeout returns the bounded timeout applied to classifier calls
func (c Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.ClassifierTimeoutSeconds) * time.Second
}

// DefaultConfig returns the production defaults. The profanity and
// restricted-tag lists are deliberately short starting points; deployments
// extend them through the config file.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			AutoRejectThreshold:           0.95,
			HumanReviewThreshold:          0.85,
			AutoApproveThreshold:          0.60,
			RepeatOffenderStrikeThreshold: 3,
			MinorsShadowModerationEnabled: true,
			MinorsRiskThreshold:           0.75,
		},
		ProfanityList:  []string{"damn", "hell", "crap"},
		RestrictedTags: []string{"minors", "explicit", "adult"},
		Labels: LabelSets{
			Explicit:   []string{"EXPLICIT"},
			Suggestive: []string{"SUGGESTIVE"},
			Weapons:    []string{"WEAPONS", "VIOLENCE"},
			Minors:     []string{"MINORS"},
		},
		MinLabelConfidence:       60,
		ClassifierTimeoutSeconds: 10,
	}
}

// Validate checks threshold ordering and value ranges
func (c *Config) Validate() error {
	t := c.Thresholds
	for name, v := range map[string]float64{
		"auto_reject_threshold":  t.AutoRejectThreshold,
		"human_review_threshold": t.HumanReviewThreshold,
		"auto_approve_threshold": t.AutoApproveThreshold,
		"minors_risk_threshold":  t.MinorsRiskThreshold,
	} {
		if v < 0 || v > 1 {
			return &ConfigError{Field: name, Message: fmt.Sprintf("must be between 0 and 1, got %v", v)}
		}
	}
	if t.AutoApproveThreshold > t.HumanReviewThreshold || t.HumanReviewThreshold > t.AutoRejectThreshold {
		return &ConfigError{
			Field:   "thresholds",
			Message: "must be ordered auto_approve <= human_review <= auto_reject",
		}
	}
	if t.RepeatOffenderStrikeThreshold < 1 {
		return &ConfigError{Field: "repeat_offender_strike_threshold", Message: "must be at least 1"}
	}
	if c.MinLabelConfidence < 0 || c.MinLabelConfidence > 100 {
		return &ConfigError{Field: "min_label_confidence", Message: "must be between 0 and 100"}
	}
	if c.ClassifierTimeoutSeconds < 1 {
		return &ConfigError{Field: "classifier_timeout_seconds", Message: "must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "moderation config error in " + e.Field + ": " + e.Message
}

// ConfigSource provides the current configuration snapshot. Implementations
// must tolerate concurrent readers; the engine calls Current on every
// decision and never blocks on refresh.
type ConfigSource interface {
	Current() Config
}

// Static wraps a fixed configuration as a ConfigSource
func Static(cfg Config) ConfigSource {
	return staticConfig{cfg: cfg}
}

type staticConfig struct{ cfg Config }

func (s staticConfig) Current() Config { return s.cfg }

// FileConfig loads moderation configuration from a JSON file and supports
// hot reloading. If the path is empty or the file is missing, the defaults
// apply and the service stays fully functional.
type FileConfig struct {
	mu         sync.RWMutex
	config     Config
	configPath string
}

// NewFileConfig creates a FileConfig and performs the initial load
func NewFileConfig(configPath string) (*FileConfig, error) {
	f := &FileConfig{
		config:     DefaultConfig(),
		configPath: configPath,
	}

	if configPath == "" {
		log.Info().Msg("moderation: no config path provided, using defaults")
		return f, nil
	}

	if err := f.load(); err != nil {
		return nil, fmt.Errorf("failed to load moderation config: %w", err)
	}

	return f, nil
}

// load reads and parses the config file
func (f *FileConfig) load() error {
	data, err := os.ReadFile(f.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", f.configPath).Msg("moderation: config file not found, using defaults")
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so partial files only override what they set
	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.config = config

	log.Info().
		Float64("auto_reject", config.Thresholds.AutoRejectThreshold).
		Float64("human_review", config.Thresholds.HumanReviewThreshold).
		Float64("auto_approve", config.Thresholds.AutoApproveThreshold).
		Int("strike_threshold", config.Thresholds.RepeatOffenderStrikeThreshold).
		Str("path", f.configPath).
		Msg("moderation: config loaded")

	return nil
}

// Reload reloads the configuration from disk. A failed reload keeps the
// previous snapshot in effect.
func (f *FileConfig) Reload() error {
	if f.configPath == "" {
		return nil
	}
	return f.load()
}

// Current returns a copy of the current configuration snapshot
func (f *FileConfig) Current() Config {
	f.mu.RLock()
	defer f.mu.RUnlock()

	// Copy slices so callers cannot mutate the live config
	cfg := f.config
	cfg.ProfanityList = append([]string(nil), f.config.ProfanityList...)
	cfg.RestrictedTags = append([]string(nil), f.config.RestrictedTags...)
	cfg.Labels = LabelSets{
		Explicit:   append([]string(nil), f.config.Labels.Explicit...),
		Suggestive: append([]string(nil), f.config.Labels.Suggestive...),
		Weapons:    append([]string(nil), f.config.Labels.Weapons...),
		Minors:     append([]string(nil), f.config.Labels.Minors...),
	}
	return cfg
}
