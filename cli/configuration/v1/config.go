package v1

import (
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

const (
	ConfigType   = "scenectl.config"
	ConfigTypeV1 = "v1"
)

const (
	DefaultIndent           = 4
	DefaultConcurrencyLimit = 4
)

// Config holds the settings loaded from a configuration file.
type Config struct {
	Type string `json:"type"`
	// Indent is the number of spaces used to indent written scene files.
	Indent *int `json:"indent,omitempty"`
	// Verify decodes every written scene again and compares it with the encoded one.
	Verify *bool `json:"verify,omitempty"`
	// Validate checks world manifests against the JSON schema of their component types.
	Validate *bool `json:"validate,omitempty"`
	// ConcurrencyLimit bounds the number of files processed in parallel.
	ConcurrencyLimit *int `json:"concurrencyLimit,omitempty"`
}

// Decode reads a configuration file. Unknown fields and other types than
// scenectl.config/v1 are rejected.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	typ, err := value.ParseIdentifier(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("invalid config type: %w", err)
	}
	if typ.String() != ConfigType+"/"+ConfigTypeV1 {
		return nil, fmt.Errorf("unsupported config type %q, expected %s/%s", cfg.Type, ConfigType, ConfigTypeV1)
	}
	if cfg.Indent != nil && (*cfg.Indent < 1 || *cfg.Indent > 9) {
		return nil, fmt.Errorf("indent must be between 1 and 9, got %d", *cfg.Indent)
	}
	if cfg.ConcurrencyLimit != nil && *cfg.ConcurrencyLimit < 1 {
		return nil, fmt.Errorf("concurrencyLimit must be positive, got %d", *cfg.ConcurrencyLimit)
	}
	return &cfg, nil
}

// Merge merges the provided configs into a single config.
// Settings of later configs overwrite the ones of preceding configs.
func Merge(configs ...*Config) *Config {
	merged := &Config{Type: ConfigType + "/" + ConfigTypeV1}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Indent != nil {
			merged.Indent = cfg.Indent
		}
		if cfg.Verify != nil {
			merged.Verify = cfg.Verify
		}
		if cfg.Validate != nil {
			merged.Validate = cfg.Validate
		}
		if cfg.ConcurrencyLimit != nil {
			merged.ConcurrencyLimit = cfg.ConcurrencyLimit
		}
	}
	return merged
}

func (c *Config) GetIndent() int {
	if c == nil || c.Indent == nil {
		return DefaultIndent
	}
	return *c.Indent
}

func (c *Config) GetVerify() bool {
	return c != nil && c.Verify != nil && *c.Verify
}

func (c *Config) GetValidate() bool {
	return c != nil && c.Validate != nil && *c.Validate
}

func (c *Config) GetConcurrencyLimit() int {
	if c == nil || c.ConcurrencyLimit == nil {
		return DefaultConcurrencyLimit
	}
	return *c.ConcurrencyLimit
}
