package config

import (
	"fmt"

	"github.com/skillsenselab/ytscribe/internal/logger"
	"github.com/skillsenselab/ytscribe/internal/media"
	"github.com/skillsenselab/ytscribe/internal/observability"
	"github.com/skillsenselab/ytscribe/internal/server"
	"github.com/skillsenselab/ytscribe/internal/service"
	"github.com/skillsenselab/ytscribe/internal/transcribe"
)

// Config is the full service configuration.
type Config struct {
	Name          string               `yaml:"name" mapstructure:"name"`
	Environment   string               `yaml:"environment" mapstructure:"environment"`
	Version       string               `yaml:"version" mapstructure:"version"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Tools         media.Tools          `yaml:"tools" mapstructure:"tools"`
	OpenAI        transcribe.Config    `yaml:"openai" mapstructure:"openai"`
	Pipeline      service.Config       `yaml:"pipeline" mapstructure:"pipeline"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "ytscribe"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Tools.ApplyDefaults()
	c.OpenAI.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Tools.Validate(); err != nil {
		return fmt.Errorf("config.tools: %w", err)
	}
	if err := c.OpenAI.Validate(); err != nil {
		return fmt.Errorf("config.openai: %w", err)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("config.pipeline: %w", err)
	}
	return nil
}
