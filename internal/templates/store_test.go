package templates

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wmstudio/pkg/watermark"
)

// stubKV lets tests fail reads or writes on demand.
type stubKV struct {
	data     map[string][]byte
	getErr   error
	putErr   error
	putCalls int
}

func newStubKV() *stubKV { return &stubKV{data: map[string][]byte{}} }

func (s *stubKV) Get(key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNoValue
	}
	return v, nil
}

func (s *stubKV) Put(key string, value []byte) error {
	s.putCalls++
	if s.putErr != nil {
		return s.putErr
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// fixedClock returns the same instant on every call.
func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func sampleParams(i int) watermark.RenderParams {
	p := watermark.DefaultParams()
	p.Content = "wm"
	p.FontSizeUnits = float64(20 + i)
	p.RotationDegrees = float64(i * 10)
	return p
}

func fill(t *testing.T, s *Store, n int) []Template {
	t.Helper()
	var out []Template
	for i := 0; i < n; i++ {
		tpl, err := s.Save("", sampleParams(i))
		require.NoError(t, err)
		out = append(out, tpl)
	}
	return out
}

func TestStoreSaveAndLoad(t *testing.T) {
	kv := newStubKV()
	s := NewStore(kv)
	assert.Empty(t, s.Initialize())

	params := watermark.RenderParams{
		Kind:      watermark.KindImage,
		TextSpec:  watermark.TextSpec{Content: "© 2024", FontSizeUnits: 55, Color: "rgba(255,0,0,0.4)"},
		ImageSpec: watermark.ImageSpec{ScalePercent: 33},
		Placement: watermark.Placement{PositionX: 12.5, PositionY: 99, RotationDegrees: -45, Opacity: 0.25},
	}
	tpl, err := s.Save("Corner logo", params)
	require.NoError(t, err)
	assert.Equal(t, "Corner logo", tpl.Name)

	got, err := s.Load(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, params, got)

	// Survives a fresh process.
	reopened := NewStore(kv)
	list := reopened.Initialize()
	require.Len(t, list, 1)
	assert.Equal(t, tpl, list[0])

	// Loading does not reorder or mutate.
	before := reopened.List()
	_, err = reopened.Load(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, before, reopened.List())
}

func TestStoreLoadMissing(t *testing.T) {
	s := NewStore(newStubKV())
	s.Initialize()
	_, err := s.Load(42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreCapacity(t *testing.T) {
	kv := newStubKV()
	s := NewStore(kv)
	s.Initialize()
	fill(t, s, MaxTemplates)

	before := s.List()
	stored := append([]byte(nil), kv.data[DefaultKey]...)
	calls := kv.putCalls

	_, err := s.Save("one too many", watermark.DefaultParams())
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, before, s.List())
	assert.Len(t, s.List(), MaxTemplates)
	assert.Equal(t, stored, kv.data[DefaultKey])
	assert.Equal(t, calls, kv.putCalls)
}

func TestStoreAutoNaming(t *testing.T) {
	s := NewStore(newStubKV())
	s.Initialize()
	saved := fill(t, s, 3)
	assert.Equal(t, "Template 1", saved[0].Name)
	assert.Equal(t, "Template 2", saved[1].Name)
	assert.Equal(t, "Template 3", saved[2].Name)

	// Names are positional and may repeat after a delete.
	require.NoError(t, s.Delete(saved[0].ID))
	tpl, err := s.Save("", watermark.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Template 3", tpl.Name)

	t.Run("names are trimmed", func(t *testing.T) {
		blank, err := s.Save("   ", watermark.DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, "Template 4", blank.Name)

		padded, err := s.Save("  Corner  ", watermark.DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, "Corner", padded.Name)
	})
}

func TestStoreIDs(t *testing.T) {
	s := NewStore(newStubKV(), WithClock(fixedClock(1_700_000_000_000)))
	s.Initialize()
	saved := fill(t, s, 3)

	assert.Equal(t, int64(1_700_000_000_000), saved[0].ID)
	assert.Equal(t, int64(1_700_000_000_001), saved[1].ID)
	assert.Equal(t, int64(1_700_000_000_002), saved[2].ID)

	s.now = fixedClock(1_800_000_000_000)
	tpl, err := s.Save("", watermark.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1_800_000_000_000), tpl.ID)
}

func TestStoreDelete(t *testing.T) {
	kv := newStubKV()
	s := NewStore(kv)
	s.Initialize()
	saved := fill(t, s, 3)

	require.NoError(t, s.Delete(saved[1].ID))
	assert.Equal(t, []Template{saved[0], saved[2]}, s.List())

	t.Run("missing id is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(12345))
		once := s.List()
		onceStored := append([]byte(nil), kv.data[DefaultKey]...)

		require.NoError(t, s.Delete(12345))
		assert.Equal(t, once, s.List())
		assert.Equal(t, onceStored, kv.data[DefaultKey])
	})

	t.Run("persisted", func(t *testing.T) {
		reopened := NewStore(kv)
		assert.Equal(t, []Template{saved[0], saved[2]}, reopened.Initialize())
	})
}

func TestStoreReset(t *testing.T) {
	kv := newStubKV()
	s := NewStore(kv)
	s.Initialize()
	fill(t, s, 2)

	require.NoError(t, s.Reset())
	assert.Empty(t, s.List())
	assert.Empty(t, NewStore(kv).Initialize())
	assert.JSONEq(t, `{"version":1,"templates":[]}`, string(kv.data[DefaultKey]))
}

func TestStoreFailedWrite(t *testing.T) {
	kv := newStubKV()
	s := NewStore(kv)
	s.Initialize()
	saved := fill(t, s, 2)
	before := s.List()

	kv.putErr = errors.New("disk full")

	_, err := s.Save("lost", watermark.DefaultParams())
	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorIs(t, err, kv.putErr)
	assert.Equal(t, before, s.List())

	err = s.Delete(saved[0].ID)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, before, s.List())

	assert.ErrorIs(t, s.Reset(), ErrPersist)
	assert.Equal(t, before, s.List())
}

func TestStoreInitializeRecovery(t *testing.T) {
	valid := func(n int) []Template {
		out := make([]Template, n)
		for i := range out {
			out[i] = Template{ID: int64(i + 1), Name: "t", Settings: watermark.DefaultParams()}
		}
		return out
	}
	mustJSON := func(v any) string {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return string(b)
	}
	dup := valid(2)
	dup[1].ID = dup[0].ID

	test := []struct {
		name   string
		stored string
		want   int
	}{
		{"not json", "{{{ nope", 0},
		{"wrong shape", `{"version":1,"templates":"nope"}`, 0},
		{"unknown version", mustJSON(envelope{Version: 7, Templates: valid(1)}), 0},
		{"too many entries", mustJSON(envelope{Version: 1, Templates: valid(6)}), 0},
		{"duplicate ids", mustJSON(envelope{Version: 1, Templates: dup}), 0},
		{"empty value", "   ", 0},
		{"legacy array", mustJSON(valid(2)), 2},
		{"current envelope", mustJSON(envelope{Version: 1, Templates: valid(3)}), 3},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			kv := newStubKV()
			kv.data[DefaultKey] = []byte(tt.stored)

			s := NewStore(kv)
			var got []Template
			assert.NotPanics(t, func() { got = s.Initialize() })
			assert.Len(t, got, tt.want)
			assert.Len(t, s.List(), tt.want)
		})
	}

	t.Run("backend read error", func(t *testing.T) {
		kv := newStubKV()
		kv.getErr = errors.New("io error")
		s := NewStore(kv)
		assert.Empty(t, s.Initialize())

		// The store stays usable after recovery.
		kv.getErr = nil
		_, err := s.Save("", watermark.DefaultParams())
		assert.NoError(t, err)
	})
}

func TestStoreLegacyFormat(t *testing.T) {
	// Collection as written by the browser version of the tool.
	raw := `[{"id":1718000000000,"name":"Template 1","settings":{"watermarkType":"text",
		"text":"© Me","fontSize":40,"opacity":0.7,"color":"#ffffff","posX":50,"posY":50,
		"rotation":0,"logoScale":20}}]`

	kv := newStubKV()
	kv.data[DefaultKey] = []byte(raw)
	s := NewStore(kv)

	list := s.Initialize()
	require.Len(t, list, 1)
	assert.Equal(t, int64(1718000000000), list[0].ID)
	assert.Equal(t, "© Me", list[0].Settings.Content)

	// The next write upgrades to the versioned envelope.
	_, err := s.Save("", watermark.DefaultParams())
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(kv.data[DefaultKey], &env))
	assert.Equal(t, formatVersion, env.Version)
	assert.Len(t, env.Templates, 2)
}

func TestStoreWithFileKV(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewStore(NewFileKV(fs, "/data"), WithKey("custom"))
	s.Initialize()
	tpl, err := s.Save("file backed", sampleParams(1))
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/data/custom.json")
	require.NoError(t, err)
	assert.True(t, exists)

	list := NewStore(NewFileKV(fs, "/data"), WithKey("custom")).Initialize()
	assert.Equal(t, []Template{tpl}, list)
}
