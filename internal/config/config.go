package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"wmstudio/internal/templates"
	"wmstudio/pkg/imageio"
	"wmstudio/pkg/logger"
	"wmstudio/pkg/utils"
	"wmstudio/pkg/watermark"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

var AppConfig *Config

// Load reads .env, then config.yaml from the working directory (or
// configFile when set), then WMSTUDIO_* environment variables, on top of the
// built-in defaults.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogWarn(".env found but unreadable: %v", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("WMSTUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.LogInfo("Config file not found. Using Environment Variables and Defaults.")
		} else if configFile != "" {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		} else {
			logger.LogWarn("Config file found but unreadable: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	AppConfig = &cfg
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "WM Studio")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.banner", true)

	// Render
	v.SetDefault("render.font_path", "")
	v.SetDefault("render.logo_cache_size", "64MB")

	// Ingest & Export
	v.SetDefault("ingest.max_upload_size", "25MB")
	v.SetDefault("export.filename", imageio.DefaultExportName)

	// Templates
	v.SetDefault("templates.backend", BackendSQLite)
	v.SetDefault("templates.path", "./data/wmstudio.db")
	v.SetDefault("templates.key", templates.DefaultKey)

	// Session defaults
	d := watermark.DefaultParams()
	v.SetDefault("defaults.kind", string(d.Kind))
	v.SetDefault("defaults.text", d.Content)
	v.SetDefault("defaults.font_size", d.FontSizeUnits)
	v.SetDefault("defaults.color", d.Color)
	v.SetDefault("defaults.opacity", d.Opacity)
	v.SetDefault("defaults.pos_x", d.PositionX)
	v.SetDefault("defaults.pos_y", d.PositionY)
	v.SetDefault("defaults.rotation", d.RotationDegrees)
	v.SetDefault("defaults.logo_scale", d.ScalePercent)
}

func (c *Config) Validate() error {
	switch c.Templates.Backend {
	case BackendSQLite, BackendFile:
	default:
		return fmt.Errorf("unknown templates.backend %q (want %q or %q)", c.Templates.Backend, BackendSQLite, BackendFile)
	}
	if strings.TrimSpace(c.Templates.Path) == "" {
		return fmt.Errorf("templates.path cannot be empty")
	}
	if strings.TrimSpace(c.Templates.Key) == "" {
		return fmt.Errorf("templates.key cannot be empty")
	}

	if _, err := utils.ParseSize(c.Render.LogoCacheSize); err != nil {
		return fmt.Errorf("invalid render.logo_cache_size '%s': %v", c.Render.LogoCacheSize, err)
	}
	if _, err := utils.ParseSize(c.Ingest.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid ingest.max_upload_size '%s': %v", c.Ingest.MaxUploadSize, err)
	}
	if strings.TrimSpace(c.Export.Filename) == "" {
		return fmt.Errorf("export.filename cannot be empty")
	}

	return c.Defaults.validate()
}

func (d DefaultsConfig) validate() error {
	switch watermark.Kind(d.Kind) {
	case watermark.KindText, watermark.KindImage:
	default:
		return fmt.Errorf("invalid defaults.kind %q", d.Kind)
	}
	if _, err := watermark.ParseColor(d.Color); err != nil {
		return fmt.Errorf("invalid defaults.color: %w", err)
	}

	ranges := []struct {
		key    string
		val    float64
		lo, hi float64
	}{
		{"font_size", d.FontSize, watermark.MinFontSize, watermark.MaxFontSize},
		{"opacity", d.Opacity, watermark.MinOpacity, watermark.MaxOpacity},
		{"pos_x", d.PosX, watermark.MinPosition, watermark.MaxPosition},
		{"pos_y", d.PosY, watermark.MinPosition, watermark.MaxPosition},
		{"rotation", d.Rotation, watermark.MinRotation, watermark.MaxRotation},
		{"logo_scale", d.LogoScale, watermark.MinLogoScale, watermark.MaxLogoScale},
	}
	for _, r := range ranges {
		if r.val < r.lo || r.val > r.hi {
			return fmt.Errorf("defaults.%s %v out of range [%v, %v]", r.key, r.val, r.lo, r.hi)
		}
	}
	return nil
}

// Params converts the configured defaults into render parameters.
func (d DefaultsConfig) Params() watermark.RenderParams {
	return watermark.RenderParams{
		Kind:      watermark.Kind(d.Kind),
		TextSpec:  watermark.TextSpec{Content: d.Text, FontSizeUnits: d.FontSize, Color: d.Color},
		ImageSpec: watermark.ImageSpec{ScalePercent: d.LogoScale},
		Placement: watermark.Placement{
			PositionX:       d.PosX,
			PositionY:       d.PosY,
			RotationDegrees: d.Rotation,
			Opacity:         d.Opacity,
		},
	}
}

// LogoCacheBytes returns the logo cache budget in bytes.
func (c *Config) LogoCacheBytes() int64 {
	return utils.SizeToBytes(c.Render.LogoCacheSize, 64*1024*1024)
}

// MaxUploadBytes returns the ingest limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return utils.SizeToBytes(c.Ingest.MaxUploadSize, 25*1024*1024)
}
