package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLanguage(t *testing.T) {
	assert.Equal(t, "en", ResolveLanguage([]string{"fr-FR"}))
	assert.Equal(t, "ja", ResolveLanguage([]string{"ja-JP"}))
	assert.Equal(t, "ja", ResolveLanguage([]string{"ja"}))
	assert.Equal(t, "en", ResolveLanguage([]string{"en-US", "ja-JP"}))
	assert.Equal(t, "ja", ResolveLanguage([]string{"JA-jp", "en"}))
	assert.Equal(t, "en", ResolveLanguage(nil))
	assert.Equal(t, "en", ResolveLanguage([]string{"j"}))
}

func TestLocalizePath(t *testing.T) {
	assert.Equal(t, "assets/json/i18n/en/localize.json", LocalizePath(ResolveLanguage([]string{"fr-FR"})))
	assert.Equal(t, "assets/json/i18n/ja/localize.json", LocalizePath(ResolveLanguage([]string{"ja-JP"})))
}

func TestPreferredLanguages(t *testing.T) {
	assert.Equal(t, []string{"ja-JP", "ja", "en"}, PreferredLanguages("ja-JP,ja;q=0.9,en;q=0.8"))
	assert.Equal(t, []string{"en", "fr"}, PreferredLanguages("fr;q=0.5, en"))
	assert.Nil(t, PreferredLanguages("  "))
}

func TestInstallAndLocalize(t *testing.T) {
	l := NewLocalizer()
	_, err := l.Localize("title", nil)
	assert.ErrorIs(t, err, ErrNotInstalled)

	require.NoError(t, l.InstallJSON("ja", []byte(`{
		"title": "場所",
		"place": {"tel": "電話"},
		"greet": "Hi {{format .Name \"uppercase\"}}",
		"when": "{{format .At \"2006/01/02\"}}"
	}`)))
	assert.Equal(t, "ja", l.Language())
	assert.Equal(t, "場所", l.T("title"))
	assert.Equal(t, "電話", l.T("place.tel"))

	s, err := l.Localize("greet", map[string]any{"Name": "taro"})
	require.NoError(t, err)
	assert.Equal(t, "Hi TARO", s)

	s, err = l.Localize("when", map[string]any{"At": time.Date(2017, 3, 4, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "2017/03/04", s)

	s, err = l.Localize("missing", nil)
	assert.Error(t, err)
	assert.Equal(t, "missing", s)

	assert.Len(t, l.Messages(), 4)
}

func TestInstallJSONRejectsBrokenPayload(t *testing.T) {
	l := NewLocalizer()
	assert.Error(t, l.InstallJSON("en", []byte(`[`)))
	assert.Empty(t, l.Language())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "ABC", Format("abc", "uppercase"))
	assert.Equal(t, 3, Format(3, "uppercase"))
	assert.Equal(t, "x", Format("x", ""))
}

func TestPrepareDoesNotInstall(t *testing.T) {
	l := NewLocalizer()
	_, err := Prepare("not a tag!", map[string]string{"a": "b"})
	assert.Error(t, err)

	r, err := Prepare("en", map[string]string{"title": "Map"})
	require.NoError(t, err)
	assert.Empty(t, l.Language())

	l.Use(r)
	assert.Equal(t, "en", l.Language())
	assert.Equal(t, "Map", l.T("title"))
}
