package config

type Config struct {
	// App: Identity shown in the CLI banner
	App AppInfoConfig `mapstructure:"app"`

	// Render: Compositor resources
	Render RenderConfig `mapstructure:"render"`

	// Ingest: Limits applied when reading base and logo images
	Ingest IngestConfig `mapstructure:"ingest"`

	// Export: Output file naming
	Export ExportConfig `mapstructure:"export"`

	// Templates: Where saved templates are persisted
	Templates TemplatesConfig `mapstructure:"templates"`

	// Defaults: Initial watermark settings of a new session
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

type AppInfoConfig struct {
	// Name: Application name (e.g., "WM Studio")
	Name string `mapstructure:"name"`

	// Version: Application semantic version (e.g., "0.1.0")
	Version string `mapstructure:"version"`

	// Banner: Print the startup signature
	Banner bool `mapstructure:"banner"`
}

type RenderConfig struct {
	// FontPath: TTF/OTF file for text watermarks. Empty uses the built-in bold face.
	FontPath string `mapstructure:"font_path"`

	// LogoCacheSize: Memory budget for resized logo sprites (e.g., "64MB")
	LogoCacheSize string `mapstructure:"logo_cache_size"`
}

type IngestConfig struct {
	// MaxUploadSize: Largest accepted image file (e.g., "25MB")
	MaxUploadSize string `mapstructure:"max_upload_size"`
}

type ExportConfig struct {
	// Filename: Default output file name
	Filename string `mapstructure:"filename"`
}

type TemplatesConfig struct {
	// Backend: "sqlite" or "file"
	Backend string `mapstructure:"backend"`

	// Path: SQLite database file, or directory for the file backend
	Path string `mapstructure:"path"`

	// Key: Storage key of the template collection
	Key string `mapstructure:"key"`
}

type DefaultsConfig struct {
	Kind      string  `mapstructure:"kind"`
	Text      string  `mapstructure:"text"`
	FontSize  float64 `mapstructure:"font_size"`
	Color     string  `mapstructure:"color"`
	Opacity   float64 `mapstructure:"opacity"`
	PosX      float64 `mapstructure:"pos_x"`
	PosY      float64 `mapstructure:"pos_y"`
	Rotation  float64 `mapstructure:"rotation"`
	LogoScale float64 `mapstructure:"logo_scale"`
}
