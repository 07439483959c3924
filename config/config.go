package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type DataConfig struct {
	Path       string  `yaml:"path"`
	Organized  bool    `yaml:"organized" default:"false"`
	MaxSteps   int     `yaml:"max_steps" default:"5000" validate:"gte=1"`
	TrainRatio float64 `yaml:"train_ratio" default:"0.8" validate:"gt=0,lt=1"`
}

type EnvironmentConfig struct {
	InitialCash       float64 `yaml:"initial_cash" default:"100000"`
	TerminationMargin int     `yaml:"termination_margin" default:"2" validate:"gte=1"`
}

type ExperimentConfig struct {
	TotalSteps             int    `yaml:"total_steps" default:"10000" validate:"gte=1"`
	Horizon                int    `yaml:"horizon" default:"1000" validate:"gte=1"`
	Runs                   int    `yaml:"runs" default:"1" validate:"gte=1"`
	EvalEvery              int    `yaml:"eval_every" default:"1000" validate:"gte=0"`
	MaxTestSteps           int    `yaml:"max_test_steps" default:"100" validate:"gte=1"`
	ConsecutiveErrorsAbort int    `yaml:"consecutive_errors_abort" default:"5" validate:"gte=1"`
	SavePath               string `yaml:"save_path" default:"results"`
	RecordTraces           bool   `yaml:"record_traces"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" default:":8080" validate:"required"`
	// Idle sessions are removed after this long, 0 keeps them until deleted
	SessionTTL time.Duration `yaml:"session_ttl" default:"30m" validate:"gte=0"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" default:"127.0.0.1:6379" validate:"required_if=Enabled true"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	TTL      time.Duration `yaml:"ttl" default:"24h"`
	Prefix   string        `yaml:"prefix" default:"keyword-rl"`
}

type LogConfig struct {
	Level       string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Config is the configuration shared by all commands
type Config struct {
	Data        DataConfig        `yaml:"data"`
	Environment EnvironmentConfig `yaml:"environment"`
	Experiment  ExperimentConfig  `yaml:"experiment"`
	Server      ServerConfig      `yaml:"server"`
	Redis       RedisConfig       `yaml:"redis"`
	Log         LogConfig         `yaml:"log"`
}

var validate = validator.New()

// Default returns the configuration with every default applied
func Default() *Config {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("config defaults: %s", err))
	}
	return c
}

// Load reads the YAML file at path over the defaults, so values set in the
// file, zero values included, always win. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the field constraints. Call again after overriding fields.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("validate config: %s", strings.Join(msgs, "; "))
}

// RequireData checks that an input file is configured
func (c *Config) RequireData() error {
	if c.Data.Path == "" {
		return errors.New("validate config: data.path is required")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
