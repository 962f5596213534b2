// Package studio drives one editing session: the loaded base and logo
// images, the current watermark settings, the rendered preview, export and
// template actions.
package studio

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/spf13/afero"

	"wmstudio/internal/templates"
	"wmstudio/pkg/imageio"
	"wmstudio/pkg/logger"
	"wmstudio/pkg/watermark"
)

var (
	ErrNoImage = errors.New("no base image loaded")
	ErrNoStore = errors.New("template storage not configured")
)

// Session is not safe for concurrent use.
type Session struct {
	compositor *watermark.Compositor
	store      *templates.Store
	fs         afero.Fs
	maxBytes   int64
	exportName string

	base   image.Image
	logo   *watermark.Logo
	params watermark.RenderParams

	rendered *image.RGBA
	stale    bool
	renders  int
}

type Option func(*Session)

func WithCompositor(c *watermark.Compositor) Option {
	return func(s *Session) { s.compositor = c }
}

// WithStore enables the template actions.
func WithStore(store *templates.Store) Option {
	return func(s *Session) { s.store = store }
}

// WithFs sets the filesystem used by the *File helpers. Defaults to the OS.
func WithFs(fs afero.Fs) Option {
	return func(s *Session) { s.fs = fs }
}

// WithMaxUploadBytes limits the size of loaded image files. 0 disables it.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Session) { s.maxBytes = n }
}

func WithParams(p watermark.RenderParams) Option {
	return func(s *Session) { s.params = p.Clamp() }
}

func WithExportName(name string) Option {
	return func(s *Session) { s.exportName = name }
}

func New(opts ...Option) *Session {
	s := &Session{
		fs:         afero.NewOsFs(),
		exportName: imageio.DefaultExportName,
		params:     watermark.DefaultParams(),
		stale:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.compositor == nil {
		s.compositor = watermark.NewCompositor()
	}
	return s
}

// LoadBase replaces the base image. On a decode error the previous image
// stays loaded.
func (s *Session) LoadBase(r io.Reader) error {
	img, format, err := imageio.Decode(r, s.maxBytes)
	if err != nil {
		return fmt.Errorf("base image: %w", err)
	}
	s.base = img
	s.stale = true
	b := img.Bounds()
	logger.LogInfo("Base image loaded: %dx%d %s", b.Dx(), b.Dy(), format)
	return nil
}

func (s *Session) LoadBaseFile(path string) error {
	img, format, err := imageio.DecodeFile(s.fs, path, s.maxBytes)
	if err != nil {
		return fmt.Errorf("base image: %w", err)
	}
	s.base = img
	s.stale = true
	b := img.Bounds()
	logger.LogInfo("Base image loaded: %dx%d %s", b.Dx(), b.Dy(), format)
	return nil
}

// LoadLogo replaces the logo. On a decode error the previous logo stays
// loaded.
func (s *Session) LoadLogo(r io.Reader) error {
	img, _, err := imageio.Decode(r, s.maxBytes)
	if err != nil {
		return fmt.Errorf("logo: %w", err)
	}
	s.setLogo(img)
	return nil
}

func (s *Session) LoadLogoFile(path string) error {
	img, _, err := imageio.DecodeFile(s.fs, path, s.maxBytes)
	if err != nil {
		return fmt.Errorf("logo: %w", err)
	}
	s.setLogo(img)
	return nil
}

func (s *Session) setLogo(img image.Image) {
	s.logo = watermark.NewLogo(img)
	s.stale = true
	b := img.Bounds()
	logger.LogInfo("Logo loaded: %dx%d", b.Dx(), b.Dy())
}

func (s *Session) HasBase() bool { return s.base != nil }
func (s *Session) HasLogo() bool { return s.logo != nil }

func (s *Session) Params() watermark.RenderParams { return s.params }

// SetParams replaces the whole parameter set. Rendering is deferred until
// the output is requested, so consecutive calls cost one render.
func (s *Session) SetParams(p watermark.RenderParams) {
	s.params = p.Clamp()
	s.stale = true
}

// Update applies fn to a copy of the current parameters and sets the result.
func (s *Session) Update(fn func(*watermark.RenderParams)) {
	p := s.params
	fn(&p)
	s.SetParams(p)
}

// Rendered returns a copy of the watermarked image for the latest state.
// Callers may modify it freely.
func (s *Session) Rendered() (*image.RGBA, error) {
	img, err := s.render()
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out, nil
}

// render returns the cached output, rendering again when stale.
func (s *Session) render() (*image.RGBA, error) {
	if s.base == nil {
		return nil, ErrNoImage
	}
	if s.stale || s.rendered == nil {
		s.rendered = s.compositor.Render(s.base, s.params, s.logo)
		s.stale = false
		s.renders++
	}
	return s.rendered, nil
}

// RenderCount reports how many renders the session has performed.
func (s *Session) RenderCount() int { return s.renders }

// Export writes the rendered image as PNG.
func (s *Session) Export(w io.Writer) error {
	img, err := s.render()
	if err != nil {
		return err
	}
	return imageio.EncodePNG(w, img)
}

// ExportFile writes the rendered image to path, or to the default export
// name when path is empty. It returns the path written.
func (s *Session) ExportFile(path string) (string, error) {
	if path == "" {
		path = s.exportName
	}
	img, err := s.render()
	if err != nil {
		return "", err
	}
	if err := imageio.WriteFile(s.fs, path, img); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Session) Templates() []templates.Template {
	if s.store == nil {
		return nil
	}
	return s.store.List()
}

// SaveTemplate snapshots the current parameters.
func (s *Session) SaveTemplate(name string) (templates.Template, error) {
	if s.store == nil {
		return templates.Template{}, ErrNoStore
	}
	return s.store.Save(name, s.params)
}

// ApplyTemplate replaces the current parameters with template id. The
// template stays in the store and the loaded logo is kept.
func (s *Session) ApplyTemplate(id int64) error {
	if s.store == nil {
		return ErrNoStore
	}
	p, err := s.store.Load(id)
	if err != nil {
		return err
	}
	s.SetParams(p)
	return nil
}

func (s *Session) DeleteTemplate(id int64) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.Delete(id)
}
