package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. QUICKSETUP_SERVER_ADDR.
const EnvPrefix = "QUICKSETUP"

// Config holds application configuration.
type Config struct {
	Document DocumentConfig `mapstructure:"document"`
	Render   RenderConfig   `mapstructure:"render"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// DocumentConfig locates the quick setup document.
type DocumentConfig struct {
	Path string `mapstructure:"path"`
}

// RenderConfig holds renderer selection and presentation settings.
type RenderConfig struct {
	Renderer     string `mapstructure:"renderer"`
	ThemeName    string `mapstructure:"theme_name"`
	ThemeVariant string `mapstructure:"theme_variant"`
	FormAction   string `mapstructure:"form_action"`
	Output       string `mapstructure:"output"`
}

// ServerConfig holds HTTP settings for the serve command.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	AssetsPath      string        `mapstructure:"assets_path"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TracingConfig holds OTLP exporter settings. Tracing stays disabled while
// Endpoint is empty.
type TracingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// Load reads configuration from file and env. An explicit path must exist;
// otherwise quicksetup.{yaml,json,toml} is looked up in the working directory
// and ~/.config/quicksetup, and a missing file is not an error. Env var
// overrides use prefix QUICKSETUP_.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "quicksetup"))
		}
		v.SetConfigName("quicksetup")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("document.path", "")
	v.SetDefault("render.renderer", "vanilla")
	v.SetDefault("render.theme_name", "")
	v.SetDefault("render.theme_variant", "")
	v.SetDefault("render.form_action", "")
	v.SetDefault("render.output", "json")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_path", "/quicksetup")
	v.SetDefault("server.assets_path", "/assets")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", int64(1<<20))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.service_name", "quicksetup")
	v.SetDefault("tracing.insecure", false)
}
