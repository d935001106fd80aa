// Package config loads the YAML configuration and environment secrets.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Assets  AssetsConfig  `yaml:"assets"`
	Drafts  DraftsConfig  `yaml:"drafts"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`

	Secrets Secrets `yaml:"-"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
}

type SiteConfig struct {
	Name          string `yaml:"name" default:"Clinic Blog"`
	DefaultLocale string `yaml:"default_locale" default:"en" validate:"oneof=en fa"`
	PublicBaseURL string `yaml:"public_base_url" default:"http://localhost:12600"`
	SyntaxStyle   string `yaml:"syntax_style" default:"github"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
}

type BackendConfig struct {
	BaseURL       string        `yaml:"base_url" default:"http://localhost:5000/api" validate:"required,url"`
	Timeout       time.Duration `yaml:"timeout" default:"10s" validate:"min=1s"`
	SessionCookie string        `yaml:"session_cookie" default:"session"`
}

type AssetsConfig struct {
	Driver        string `yaml:"driver" default:"rest" validate:"oneof=rest s3 minio memory"`
	PublicBaseURL string `yaml:"public_base_url" default:"http://localhost:5000/uploads"`
	Bucket        string `yaml:"bucket" default:"blog-assets"`
	Endpoint      string `yaml:"endpoint" default:""`
	Region        string `yaml:"region" default:"auto"`
	UseSSL        bool   `yaml:"use_ssl" default:"true"`
}

type DraftsConfig struct {
	Driver      string        `yaml:"driver" default:"sqlite" validate:"oneof=memory sqlite postgres file"`
	DSN         string        `yaml:"dsn" default:"file:drafts.db?_journal_mode=WAL"`
	Path        string        `yaml:"path" default:"drafts"`
	Compression string        `yaml:"compression" default:"zstd" validate:"oneof=zstd gzip none"`
	MaxAge      time.Duration `yaml:"max_age" default:"720h"`
}

type AuthConfig struct {
	Provider string `yaml:"provider" default:"jwt" validate:"oneof=jwt clerk header"`
	Cookie   string `yaml:"cookie" default:"token"`
	Header   string `yaml:"header" default:"X-User-Id"`
}

// Secrets are read from the environment, never from the YAML file.
type Secrets struct {
	JWTSecret         string
	ClerkAPIKey       string
	S3AccessKeyID     string
	S3SecretAccessKey string
	MinIOAccessKey    string
	MinIOSecretKey    string
}

const (
	EnvJWTSecret         = "BLOGDESK_JWT_SECRET"
	EnvClerkAPIKey       = "CLERK_API"
	EnvS3AccessKeyID     = "S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "S3_SECRET_ACCESS_KEY"
	EnvMinIOAccessKey    = "MINIO_ACCESS_KEY"
	EnvMinIOSecretKey    = "MINIO_SECRET_KEY"

	EnvConfigPath     = "BLOGDESK_CONFIG"
	DefaultConfigPath = "config.yaml"
)

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	config.Secrets = LoadSecrets()

	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

func LoadSecrets() Secrets {
	return Secrets{
		JWTSecret:         os.Getenv(EnvJWTSecret),
		ClerkAPIKey:       os.Getenv(EnvClerkAPIKey),
		S3AccessKeyID:     os.Getenv(EnvS3AccessKeyID),
		S3SecretAccessKey: os.Getenv(EnvS3SecretAccessKey),
		MinIOAccessKey:    os.Getenv(EnvMinIOAccessKey),
		MinIOSecretKey:    os.Getenv(EnvMinIOSecretKey),
	}
}

var validate = validator.New()

// Validate checks field constraints and the secrets each selected driver needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch {
	case c.Auth.Provider == "jwt" && c.Secrets.JWTSecret == "":
		return fmt.Errorf("invalid config: %s must be set for the jwt auth provider", EnvJWTSecret)
	case c.Auth.Provider == "clerk" && c.Secrets.ClerkAPIKey == "":
		return fmt.Errorf("invalid config: %s must be set for the clerk auth provider", EnvClerkAPIKey)
	case c.Assets.Driver == "minio" && c.Assets.Endpoint == "":
		return fmt.Errorf("invalid config: assets.endpoint must be set for the minio driver")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int, reflect.Int64:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
