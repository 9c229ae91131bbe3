// Package config loads docstore configuration from a YAML file, a .env file
// and DOCSTORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adfharrison1/go-docstore/pkg/client"
	"github.com/adfharrison1/go-docstore/pkg/logging"
)

// EnvPrefix prefixes every environment variable, e.g. DOCSTORE_CLIENT_SECRET
const EnvPrefix = "DOCSTORE"

// Config is the complete configuration of the CLI
type Config struct {
	Client client.Config  `mapstructure:"client"`
	Server ServerConfig   `mapstructure:"server"`
	Log    logging.Config `mapstructure:"log"`
}

// ServerConfig configures the query server
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	DataFile       string        `mapstructure:"data_file"`
	BackgroundSave time.Duration `mapstructure:"background_save" validate:"gte=0"`
	Secrets        []string      `mapstructure:"secrets" validate:"min=1,dive,required"`
}

var validate = validator.New()

// LoadConfig reads configFile (or docstore.yaml in the working directory when
// empty), then .env, then the environment. Later sources win.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("docstore")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// A missing .env file is fine
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := logging.DefaultConfig()
	v.SetDefault("client.secret", "")
	v.SetDefault("client.endpoint", "http://localhost:8443")
	v.SetDefault("client.codec", "json")
	v.SetDefault("client.timeout", 30*time.Second)
	v.SetDefault("server.port", 8443)
	v.SetDefault("server.data_file", "docstore_data.gods")
	v.SetDefault("server.background_save", time.Duration(0))
	v.SetDefault("server.secrets", []string{})
	v.SetDefault("log.level", defaults.Level)
	v.SetDefault("log.format", defaults.Format)
}

// ValidateServer checks what the server needs to start
func (c *Config) ValidateServer() error {
	if err := validate.Struct(c.Server); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	if err := validate.Struct(c.Log); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

// ValidateClient checks what the client commands need
func (c *Config) ValidateClient() error {
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	return nil
}
