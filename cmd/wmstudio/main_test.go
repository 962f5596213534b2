package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wmstudio/internal/templates"
	"wmstudio/pkg/imageio"
	"wmstudio/pkg/watermark"
)

func TestParamFlags(t *testing.T) {
	var pf paramFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	pf.register(fs)
	require.NoError(t, fs.Parse([]string{"--text", "hi", "--rotation", "-45", "--kind", "image"}))

	p := watermark.DefaultParams()
	pf.apply(fs, &p)

	assert.Equal(t, "hi", p.Content)
	assert.Equal(t, -45.0, p.RotationDegrees)
	assert.Equal(t, watermark.KindImage, p.Kind)
	// Unset flags keep the base value, even where the flag default differs.
	assert.Equal(t, 0.7, p.Opacity)
	assert.Equal(t, 50.0, p.PositionX)
}

// workspace runs the CLI in a temp dir with file-backed templates.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("WMSTUDIO_APP_BANNER", "false")
	t.Setenv("WMSTUDIO_TEMPLATES_BACKEND", "file")
	t.Setenv("WMSTUDIO_TEMPLATES_PATH", filepath.Join(dir, "tpl"))

	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.png"), buf.Bytes(), 0o600))
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"-q"}, args...))
	cmd.SetOut(&bytes.Buffer{})
	return cmd.Execute()
}

func TestRenderCommand(t *testing.T) {
	dir := workspace(t)

	require.NoError(t, run(t, "render", "--in", "base.png", "--text", "WM", "--font-size", "200", "--color", "red", "--opacity", "1"))

	out, _, err := imageio.DecodeFile(afero.NewOsFs(), filepath.Join(dir, imageio.DefaultExportName), 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), out.Bounds())

	// Red ink reached the center of the image.
	found := false
	for y := 30; y < 50 && !found; y++ {
		for x := 40; x < 80; x++ {
			r, g, _, _ := out.At(x, y).RGBA()
			if r > 0xf000 && g < 0x4000 {
				found = true
				break
			}
		}
	}
	assert.True(t, found)

	assert.Error(t, run(t, "render", "--in", "missing.png"))
	assert.Error(t, run(t, "render"))
}

func TestTemplatesCommands(t *testing.T) {
	dir := workspace(t)
	kv := templates.NewFileKV(afero.NewOsFs(), filepath.Join(dir, "tpl"))

	require.NoError(t, run(t, "templates", "save", "Corner", "--pos-x", "90", "--pos-y", "90"))
	require.NoError(t, run(t, "templates", "save", "--text", "second"))
	require.NoError(t, run(t, "templates", "list"))

	list := templates.NewStore(kv).Initialize()
	require.Len(t, list, 2)
	assert.Equal(t, "Corner", list[0].Name)
	assert.Equal(t, 90.0, list[0].Settings.PositionX)
	assert.Equal(t, "Template 2", list[1].Name)

	id := list[0].ID
	idArg := func() string { return strconv.FormatInt(id, 10) }

	require.NoError(t, run(t, "templates", "show", idArg()))
	require.NoError(t, run(t, "render", "--in", "base.png", "--template", idArg(), "--out", "tpl.png"))
	_, err := os.Stat(filepath.Join(dir, "tpl.png"))
	assert.NoError(t, err)

	require.NoError(t, run(t, "templates", "delete", idArg()))
	require.NoError(t, run(t, "templates", "delete", idArg()))
	assert.Len(t, templates.NewStore(kv).Initialize(), 1)

	assert.Error(t, run(t, "templates", "show", "not-a-number"))
	assert.Error(t, run(t, "templates", "show", idArg()))

	require.NoError(t, run(t, "templates", "reset"))
	assert.Empty(t, templates.NewStore(kv).Initialize())
}
