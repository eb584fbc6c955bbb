/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/suparena/dynarepo/datastore/ddb"
	"github.com/suparena/dynarepo/errors"
	"github.com/suparena/dynarepo/lifecycle"
	"github.com/suparena/dynarepo/repository"
	"github.com/suparena/dynarepo/storagemodels"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration of the data-access layer.
type Config struct {
	AWS AWSConfig `yaml:"aws"`

	// TablePrefix is prepended to every table name.
	TablePrefix string `yaml:"tablePrefix"`
	// Entity2DDL is the table lifecycle mode, see lifecycle.ParseMode.
	Entity2DDL         string        `yaml:"entity2ddl" validate:"omitempty,entity2ddl"`
	TableActiveTimeout time.Duration `yaml:"tableActiveTimeout" validate:"gt=0"`
	TablePollInterval  time.Duration `yaml:"tablePollInterval" validate:"gt=0"`
	LookupStrategy     string        `yaml:"queryLookupStrategy" validate:"omitempty,oneof=CREATE CREATE_IF_NOT_FOUND USE_DECLARED_QUERY"`

	Scan    ScanConfig    `yaml:"scan"`
	Breaker BreakerConfig `yaml:"breaker"`
	Metrics MetricsConfig `yaml:"metrics"`

	LogLevel string `yaml:"logLevel" validate:"oneof=debug info warn error"`

	Tables []TableConfig `yaml:"tables" validate:"dive"`
}

type AWSConfig struct {
	Region    string `yaml:"region" validate:"required"`
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey string `yaml:"accessKey" validate:"required_with=SecretKey"`
	SecretKey string `yaml:"secretKey" validate:"required_with=AccessKey"`
}

// ScanConfig enables the repository operations that scan whole tables.
type ScanConfig struct {
	FindAllUnpaginated   bool `yaml:"findAllUnpaginated"`
	DeleteAllUnpaginated bool `yaml:"deleteAllUnpaginated"`
	CountUnpaginated     bool `yaml:"countUnpaginated"`
	FindAllPaginated     bool `yaml:"findAllPaginated"`
}

type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	MaxRequests      uint32        `yaml:"maxRequests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failureThreshold" validate:"gte=0,lte=1"`
	MinRequests      uint32        `yaml:"minRequests"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required_if=Enabled true"`
	// Address serves /metrics when set, e.g. ":9090".
	Address string `yaml:"address" validate:"omitempty,hostname_port"`
}

// TableConfig declares a table managed by the synchronizer.
type TableConfig struct {
	Name          string     `yaml:"name" validate:"required"`
	HashKey       KeyConfig  `yaml:"hashKey"`
	RangeKey      *KeyConfig `yaml:"rangeKey"`
	ReadCapacity  int64      `yaml:"readCapacity" validate:"gte=0"`
	WriteCapacity int64      `yaml:"writeCapacity" validate:"gte=0"`
}

type KeyConfig struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"omitempty,oneof=S N B"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	breaker := ddb.DefaultBreakerConfig("dynamodb")
	return &Config{
		AWS:                AWSConfig{Region: "us-east-1"},
		Entity2DDL:         string(lifecycle.ModeNone),
		TableActiveTimeout: lifecycle.DefaultActiveTimeout,
		TablePollInterval:  lifecycle.DefaultPollInterval,
		LookupStrategy:     string(repository.LookupCreateIfNotFound),
		Breaker: BreakerConfig{
			MaxRequests:      breaker.MaxRequests,
			Interval:         breaker.Interval,
			Timeout:          breaker.Timeout,
			FailureThreshold: breaker.FailureThreshold,
			MinRequests:      breaker.MinRequests,
		},
		Metrics:  MetricsConfig{Namespace: "dynarepo"},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path on top of the defaults, then applies a .env file
// from the working directory and DYNAREPO_* environment variables. An empty path skips
// the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.AWS.Region = getEnv("DYNAREPO_REGION", getEnv("AWS_REGION", c.AWS.Region))
	c.AWS.Endpoint = getEnv("DYNAREPO_ENDPOINT", c.AWS.Endpoint)
	c.AWS.AccessKey = getEnv("DYNAREPO_ACCESS_KEY", c.AWS.AccessKey)
	c.AWS.SecretKey = getEnv("DYNAREPO_SECRET_KEY", c.AWS.SecretKey)
	c.TablePrefix = getEnv("DYNAREPO_TABLE_PREFIX", c.TablePrefix)
	c.Entity2DDL = getEnv("DYNAREPO_ENTITY2DDL", c.Entity2DDL)
	c.LookupStrategy = getEnv("DYNAREPO_QUERY_LOOKUP_STRATEGY", c.LookupStrategy)
	c.LogLevel = getEnv("DYNAREPO_LOG_LEVEL", c.LogLevel)

	c.Scan.FindAllUnpaginated = getEnvBool("DYNAREPO_SCAN_FIND_ALL", c.Scan.FindAllUnpaginated)
	c.Scan.DeleteAllUnpaginated = getEnvBool("DYNAREPO_SCAN_DELETE_ALL", c.Scan.DeleteAllUnpaginated)
	c.Scan.CountUnpaginated = getEnvBool("DYNAREPO_SCAN_COUNT", c.Scan.CountUnpaginated)
	c.Scan.FindAllPaginated = getEnvBool("DYNAREPO_SCAN_FIND_ALL_PAGINATED", c.Scan.FindAllPaginated)

	c.Breaker.Enabled = getEnvBool("DYNAREPO_BREAKER_ENABLED", c.Breaker.Enabled)
	c.Metrics.Enabled = getEnvBool("DYNAREPO_METRICS_ENABLED", c.Metrics.Enabled)
	c.Metrics.Namespace = getEnv("DYNAREPO_METRICS_NAMESPACE", c.Metrics.Namespace)
	c.Metrics.Address = getEnv("DYNAREPO_METRICS_ADDRESS", c.Metrics.Address)

	var err error
	if c.TableActiveTimeout, err = getEnvDuration("DYNAREPO_TABLE_ACTIVE_TIMEOUT", c.TableActiveTimeout); err != nil {
		return err
	}
	if c.TablePollInterval, err = getEnvDuration("DYNAREPO_TABLE_POLL_INTERVAL", c.TablePollInterval); err != nil {
		return err
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("entity2ddl", func(fl validator.FieldLevel) bool {
		_, err := lifecycle.ParseMode(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.NewConfigurationError("config", err.Error())
	}
	return nil
}

// Mode returns the parsed table lifecycle mode.
func (c *Config) Mode() lifecycle.Mode {
	mode, err := lifecycle.ParseMode(c.Entity2DDL)
	if err != nil {
		return lifecycle.ModeNone
	}
	return mode
}

func (c *Config) ClientOptions() ddb.ClientOptions {
	return ddb.ClientOptions{
		Region:    c.AWS.Region,
		Endpoint:  c.AWS.Endpoint,
		AccessKey: c.AWS.AccessKey,
		SecretKey: c.AWS.SecretKey,
	}
}

func (c *Config) BreakerConfig(name string) ddb.BreakerConfig {
	return ddb.BreakerConfig{
		Name:             name,
		MaxRequests:      c.Breaker.MaxRequests,
		Interval:         c.Breaker.Interval,
		Timeout:          c.Breaker.Timeout,
		FailureThreshold: c.Breaker.FailureThreshold,
		MinRequests:      c.Breaker.MinRequests,
	}
}

func (c *Config) ScanPermissions() repository.ScanPermissions {
	return repository.ScanPermissions{
		FindAllUnpaginatedScanEnabled:   c.Scan.FindAllUnpaginated,
		DeleteAllUnpaginatedScanEnabled: c.Scan.DeleteAllUnpaginated,
		CountUnpaginatedScanEnabled:     c.Scan.CountUnpaginated,
		FindAllPaginatedScanEnabled:     c.Scan.FindAllPaginated,
	}
}

// TableSchemas returns the declared tables with the table prefix applied.
func (c *Config) TableSchemas() []storagemodels.TableSchema {
	schemas := make([]storagemodels.TableSchema, 0, len(c.Tables))
	for _, t := range c.Tables {
		schema := storagemodels.TableSchema{
			TableName:     ddb.ResolveTableName(t.Name, "", c.TablePrefix),
			HashKey:       t.HashKey.definition(),
			ReadCapacity:  t.ReadCapacity,
			WriteCapacity: t.WriteCapacity,
		}
		if t.RangeKey != nil {
			rangeKey := t.RangeKey.definition()
			schema.RangeKey = &rangeKey
		}
		schemas = append(schemas, schema)
	}
	return schemas
}

func (k KeyConfig) definition() storagemodels.KeyDefinition {
	kind := storagemodels.KeyKind(k.Type)
	if kind == "" {
		kind = storagemodels.KeyKindS
	}
	return storagemodels.KeyDefinition{Name: k.Name, Kind: kind}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return value == "yes"
	}
	return b
}

// getEnvDuration parses a duration such as "90s" from the environment.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.NewConfigurationError("config", fmt.Sprintf("%s: invalid duration %q", key, value))
	}
	return d, nil
}
