// Package config loads runtime settings from defaults, an optional YAML file,
// an optional .env file, and FIELDBUILDER_* environment variables, in that
// order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fieldbuilder/pkg/model"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "FIELDBUILDER_"

type EndpointConfig struct {
	URL     string            `yaml:"url" validate:"omitempty,url"`
	Token   string            `yaml:"token"`
	Timeout time.Duration     `yaml:"timeout" validate:"gte=0"`
	Headers map[string]string `yaml:"headers"`
}

type ContractConfig struct {
	// Path is a file path or http(s) URL; empty selects the embedded contract.
	Path      string `yaml:"path"`
	Operation string `yaml:"operation"`
	// Enforce validates every document against the contract before sending.
	Enforce bool `yaml:"enforce"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	BasePath string `yaml:"base_path"`
}

type PreviewConfig struct {
	Theme   string `yaml:"theme"`
	Variant string `yaml:"variant"`
}

type LogConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
}

type Config struct {
	MaxChoices    int    `yaml:"max_choices" validate:"min=1"`
	IDStrategy    string `yaml:"id_strategy" validate:"oneof=timestamp uuid sequence"`
	SanitizeInput bool   `yaml:"sanitize_input"`
	ClearOnSubmit bool   `yaml:"clear_on_submit"`
	DryRun        bool   `yaml:"dry_run"`

	Endpoint EndpointConfig `yaml:"endpoint"`
	Contract ContractConfig `yaml:"contract"`
	Server   ServerConfig   `yaml:"server"`
	Preview  PreviewConfig  `yaml:"preview"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxChoices: model.DefaultMaxChoices,
		IDStrategy: "timestamp",
		Endpoint: EndpointConfig{
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Preview: PreviewConfig{
			Theme: "default",
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadOptions names the sources Load reads.
type LoadOptions struct {
	// File is a YAML config file; empty skips it.
	File string
	// EnvFile is a dotenv file; empty skips it. A missing file is an error
	// only when Required is set.
	EnvFile string
	Required bool
	// Lookup reads environment variables; defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load assembles and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		switch {
		case err == nil:
			lookup = layered(lookup, values)
		case errors.Is(err, os.ErrNotExist) && !opts.Required:
		default:
			return nil, fmt.Errorf("config: read %s: %w", opts.EnvFile, err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}
	normalize(&cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// layered consults the primary lookup first so real environment variables
// override dotenv values.
func layered(primary func(string) (string, bool), fallback map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s is not a boolean", EnvPrefix, name))
				return
			}
			*dst = parsed
		}
	}

	if v, ok := lookup(EnvPrefix + "MAX_CHOICES"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sMAX_CHOICES is not a number", EnvPrefix))
		} else {
			cfg.MaxChoices = n
		}
	}
	if v, ok := lookup(EnvPrefix + "ENDPOINT_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sENDPOINT_TIMEOUT is not a duration", EnvPrefix))
		} else {
			cfg.Endpoint.Timeout = d
		}
	}

	str("ID_STRATEGY", &cfg.IDStrategy)
	str("ENDPOINT_URL", &cfg.Endpoint.URL)
	str("ENDPOINT_TOKEN", &cfg.Endpoint.Token)
	str("CONTRACT_PATH", &cfg.Contract.Path)
	str("CONTRACT_OPERATION", &cfg.Contract.Operation)
	str("SERVER_ADDR", &cfg.Server.Addr)
	str("SERVER_BASE_PATH", &cfg.Server.BasePath)
	str("THEME", &cfg.Preview.Theme)
	str("THEME_VARIANT", &cfg.Preview.Variant)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_LEVEL", &cfg.Log.Level)
	boolean("CONTRACT_ENFORCE", &cfg.Contract.Enforce)
	boolean("SANITIZE_INPUT", &cfg.SanitizeInput)
	boolean("CLEAR_ON_SUBMIT", &cfg.ClearOnSubmit)
	boolean("DRY_RUN", &cfg.DryRun)

	return errors.Join(errs...)
}

func normalize(cfg *Config) {
	cfg.IDStrategy = strings.ToLower(strings.TrimSpace(cfg.IDStrategy))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Endpoint.URL = strings.TrimSpace(cfg.Endpoint.URL)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and reports every violation.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	case "url":
		return path + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed %s", path, fe.Tag())
	}
}
