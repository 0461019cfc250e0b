package app

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-map/internal/assets"
	"place-map/internal/config"
	"place-map/internal/entity"
	"place-map/internal/i18n"
	"place-map/internal/notification"
	"place-map/internal/repository"
	"place-map/internal/settings"
)

const testSettings = `{
  "map": {"url": "https://maps.example.com/js", "apiKey": "k", "zoom": 14,
          "center": {"latitude": 35.68, "longitude": 139.76}},
  "analytics": {"trackingID": "UA-1-1"}
}`

const testPlaces = `[
  {"title": "Cafe A", "type": "cafe", "postalCode": "100-0001", "address": "Chiyoda 1", "tel": "03-1111-1111",
   "url": "https://a.example.com", "location": {"latitude": 35.1, "longitude": 139.1}},
  {"title": "Cafe B", "type": "cafe", "postalCode": "", "address": "Chiyoda 2", "tel": "",
   "url": "", "location": {"latitude": 35.1, "longitude": 139.1}},
  {"title": "Park", "type": "park", "postalCode": "", "address": "", "tel": "",
   "url": "", "location": {"latitude": 35.3, "longitude": 139.4}}
]`

func writeAssets(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

type nopTracker struct{ hits int }

func (n *nopTracker) Start(string) error { return nil }
func (n *nopTracker) Send(context.Context, string, url.Values) error {
	n.hits++
	return nil
}

func newTestWire(t *testing.T, files map[string]string, bootstrapErr error) (*Wire, *int) {
	w, boots, _ := newTestWireTracked(t, files, bootstrapErr)
	return w, boots
}

func newTestWireTracked(t *testing.T, files map[string]string, bootstrapErr error) (*Wire, *int, *nopTracker) {
	t.Helper()
	f := assets.DirFetcher{Root: writeAssets(t, files)}
	s := settings.New()
	boots := 0
	mapRepo := repository.NewMapImplRepositoryWith(s, func(ctx context.Context, sdkURL, apiKey string) error {
		boots++
		return bootstrapErr
	})
	cfg := config.Config{AcceptLanguage: "ja-JP,ja;q=0.9,en;q=0.8"}
	tr := &nopTracker{}
	w := NewWireWith(cfg, f, mapRepo, s, repository.NewJSONPlaceRepository(f), tr)
	return w, &boots, tr
}

func defaultFiles() map[string]string {
	return map[string]string{
		assets.SettingsPath:     testSettings,
		assets.PlacesPath:       testPlaces,
		i18n.LocalizePath("ja"): `{"place": {"address": "住所", "tel": "電話"}}`,
	}
}

func TestStartLoadsMapAndPlaces(t *testing.T) {
	w, boots, tr := newTestWireTracked(t, defaultFiles(), nil)
	require.NoError(t, w.Start(context.Background()))

	assert.Equal(t, 1, *boots)
	assert.Equal(t, 1, tr.hits)
	assert.Equal(t, "ja", w.Localizer.Language())
	st := w.MapRepo.Snapshot()
	require.True(t, st.Loaded)
	assert.Equal(t, 14.0, st.View.Zoom)
	assert.Len(t, st.Markers, 3)
	require.NotNil(t, st.Bounds)
	assert.Equal(t, entity.NewLocation(35.1, 139.1), st.Bounds.SouthWest)
	assert.Equal(t, entity.NewLocation(35.3, 139.4), st.Bounds.NorthEast)
}

func TestMarkerClickRendersFirstPlace(t *testing.T) {
	w, _ := newTestWire(t, defaultFiles(), nil)
	require.NoError(t, w.Start(context.Background()))

	var titles []any
	w.Center.AddObserver(notification.ContentTitleChange, func(p any) { titles = append(titles, p) })

	require.True(t, w.MapRepo.Click(entity.NewLocation(35.1, 139.1)))
	sel := w.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "Cafe A", sel.Title)
	assert.Equal(t, []any{"Cafe A"}, titles)

	st := w.MapRepo.Snapshot()
	require.NotNil(t, st.InfoWindow)
	assert.True(t, st.InfoWindow.Open)
	assert.Equal(t, repository.InfoWindowMaxWidth, st.InfoWindow.MaxWidth)
	html := string(st.InfoWindow.Content)
	assert.Contains(t, html, "Cafe A")
	assert.Contains(t, html, "住所")
	assert.Contains(t, html, "Postal code")

	assert.False(t, w.MapRepo.Click(entity.NewLocation(0, 0)))
}

func TestStartStopsOnInitializeFailure(t *testing.T) {
	files := defaultFiles()
	delete(files, assets.SettingsPath)
	w, boots := newTestWire(t, files, nil)
	err := w.Start(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "initialize:"))
	assert.Equal(t, 0, *boots)
	assert.False(t, w.Settings.IsSet())
}

func TestStartReportsMapFailure(t *testing.T) {
	boom := errors.New("sdk unavailable")
	w, _ := newTestWire(t, defaultFiles(), boom)
	err := w.Start(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, w.Map.IsLoaded())
}

func TestRenderInfoWindowEscapes(t *testing.T) {
	html, err := RenderInfoWindow(entity.Place{Title: "<script>x</script>", URL: "javascript:alert(1)"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
	assert.NotContains(t, string(html), "javascript:alert")
	assert.Contains(t, string(html), "Website")
}
