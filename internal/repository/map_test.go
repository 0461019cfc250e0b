package repository

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-map/internal/entity"
	"place-map/internal/settings"
)

func loadedSettings(t *testing.T, url string) *settings.Settings {
	t.Helper()
	s := settings.New()
	require.NoError(t, s.SetJSON([]byte(`{"map": {"url": "`+url+`", "apiKey": "k", "zoom": 14,
		"center": {"latitude": 35.0, "longitude": 135.0}}}`)))
	return s
}

func TestMapLoadIsIdempotent(t *testing.T) {
	var calls int32
	repo := NewMapImplRepositoryWith(loadedSettings(t, "https://maps.example.com/js"), func(ctx context.Context, u, k string) error {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "https://maps.example.com/js", u)
		assert.Equal(t, "k", k)
		return nil
	})
	assert.False(t, repo.IsLoaded())

	v1, err := repo.Load(context.Background())
	require.NoError(t, err)
	v2, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, v1, v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, repo.IsLoaded())
	assert.Equal(t, 14.0, v1.Zoom)
	assert.Equal(t, entity.NewLocation(35, 135), v1.Center)
	assert.False(t, v1.MapTypeControl)
	assert.False(t, v1.StreetViewControl)
}

func TestMapConcurrentFirstLoadSharesBootstrap(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	repo := NewMapImplRepositoryWith(loadedSettings(t, "https://maps.example.com/js"), func(ctx context.Context, u, k string) error {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	views := make([]*View, 8)
	for i := range views {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := repo.Load(context.Background())
			assert.NoError(t, err)
			views[i] = v
		}(i)
	}
	close(release)
	wg.Wait()

	for _, v := range views[1:] {
		assert.Same(t, views[0], v)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, repo.IsLoaded())
}

func TestMapLoadFailureIsNotCached(t *testing.T) {
	fail := true
	repo := NewMapImplRepositoryWith(loadedSettings(t, "https://maps.example.com/js"), func(ctx context.Context, u, k string) error {
		if fail {
			return errors.New("sdk blocked")
		}
		return nil
	})
	v, err := repo.Load(context.Background())
	assert.Nil(t, v)
	assert.EqualError(t, err, "sdk blocked")
	assert.False(t, repo.IsLoaded())

	fail = false
	v, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestMapLoadRequiresSettings(t *testing.T) {
	repo := NewMapImplRepositoryWith(settings.New(), func(ctx context.Context, u, k string) error { return nil })
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, settings.ErrNotSet)
}

func TestMapLoadOverHTTP(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("/* sdk */"))
	}))
	defer srv.Close()

	repo := NewMapImplRepository(loadedSettings(t, srv.URL+"/maps/api/js"), srv.Client())
	_, err := repo.Load(context.Background())
	require.NoError(t, err)
	_, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestMarkersAreAppendOnly(t *testing.T) {
	repo := NewMapImplRepositoryWith(settings.New(), nil)
	repo.SetMarkers([]entity.Location{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}})
	repo.SetMarkers([]entity.Location{{Latitude: 1, Longitude: 1}})
	st := repo.Snapshot()
	require.Len(t, st.Markers, 3)
	assert.Equal(t, entity.NewLocation(1, 1), st.Markers[2].Position)
}

func TestFitBounds(t *testing.T) {
	repo := NewMapImplRepositoryWith(settings.New(), nil)
	repo.FitBounds()
	assert.Nil(t, repo.Snapshot().Bounds, "no markers, no bounds")

	repo.SetMarkers([]entity.Location{{Latitude: 35.7, Longitude: 139.7}, {Latitude: 34.6, Longitude: 135.5}, {Latitude: 43.0, Longitude: 141.3}})
	repo.FitBounds()
	b := repo.Snapshot().Bounds
	require.NotNil(t, b)
	assert.Equal(t, entity.NewLocation(34.6, 135.5), b.SouthWest)
	assert.Equal(t, entity.NewLocation(43.0, 141.3), b.NorthEast)
}

func TestRefreshOnlyWhenLoaded(t *testing.T) {
	repo := NewMapImplRepositoryWith(loadedSettings(t, "https://maps.example.com/js"), func(context.Context, string, string) error { return nil })
	repo.Refresh()
	assert.Zero(t, repo.Snapshot().Resizes)

	_, err := repo.Load(context.Background())
	require.NoError(t, err)
	repo.Refresh()
	repo.Refresh()
	assert.Equal(t, 2, repo.Snapshot().Resizes)
}

func TestClickRunsHandlerThenOpensInfoWindow(t *testing.T) {
	repo := NewMapImplRepositoryWith(settings.New(), nil)
	repo.SetMarkers([]entity.Location{{Latitude: 1, Longitude: 1}})

	assert.True(t, repo.Click(entity.NewLocation(1, 1)), "click without handler or info window")
	assert.Nil(t, repo.Snapshot().InfoWindow)

	var first, last []entity.Location
	repo.SetMarkerClickHandler(func(l entity.Location) { first = append(first, l) })
	repo.SetMarkerClickHandler(func(l entity.Location) {
		last = append(last, l)
		repo.SetInfoWindowContent(template.HTML("<b>one</b>"))
	})

	assert.True(t, repo.Click(entity.NewLocation(1, 1)))
	assert.Empty(t, first, "last registered handler wins")
	assert.Equal(t, []entity.Location{{Latitude: 1, Longitude: 1}}, last)

	iw := repo.Snapshot().InfoWindow
	require.NotNil(t, iw)
	assert.True(t, iw.Open)
	assert.Equal(t, InfoWindowMaxWidth, iw.MaxWidth)
	assert.Equal(t, template.HTML("<b>one</b>"), iw.Content)
	assert.Equal(t, entity.NewLocation(1, 1), *iw.Anchor)

	assert.False(t, repo.Click(entity.NewLocation(9, 9)))
	assert.Len(t, last, 1)
}

func TestInfoWindowContentReplaced(t *testing.T) {
	repo := NewMapImplRepositoryWith(settings.New(), nil)
	repo.SetInfoWindowContent("a")
	repo.SetInfoWindowContent("b")
	iw := repo.Snapshot().InfoWindow
	require.NotNil(t, iw)
	assert.Equal(t, template.HTML("b"), iw.Content)
	assert.False(t, iw.Open)
}
