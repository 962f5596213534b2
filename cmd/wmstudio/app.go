package main

import (
	"fmt"

	"github.com/spf13/afero"

	"wmstudio/internal/config"
	"wmstudio/internal/database"
	"wmstudio/internal/templates"
	"wmstudio/pkg/cache"
	"wmstudio/pkg/logger"
	"wmstudio/pkg/watermark"
)

// openStore opens the configured template backend and loads the saved
// collection. The returned func releases the backend.
func openStore(c *config.Config) (*templates.Store, func(), error) {
	var (
		kv      templates.KV
		closeFn = func() {}
	)

	switch c.Templates.Backend {
	case config.BackendFile:
		kv = templates.NewFileKV(afero.NewOsFs(), c.Templates.Path)
	case config.BackendSQLite:
		db, err := database.Open(c.Templates.Path)
		if err != nil {
			return nil, nil, err
		}
		kv = database.NewSettingsKV(db)
		closeFn = func() {
			if err := database.Close(db); err != nil {
				logger.LogWarn("Failed to close database: %v", err)
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown templates backend %q", c.Templates.Backend)
	}

	store := templates.NewStore(kv, templates.WithKey(c.Templates.Key))
	store.Initialize()
	return store, closeFn, nil
}

// newCompositor builds a compositor with the configured font and a logo
// sprite cache.
func newCompositor(c *config.Config) *watermark.Compositor {
	opts := []watermark.Option{
		watermark.WithLogoCache(cache.New(c.LogoCacheBytes())),
	}
	if c.Render.FontPath != "" {
		fonts, err := watermark.LoadFonts(c.Render.FontPath)
		if err != nil {
			logger.LogWarn("Font loading failed, using built-in face. Error: %v", err)
		} else {
			opts = append(opts, watermark.WithFonts(fonts))
		}
	}
	return watermark.NewCompositor(opts...)
}
