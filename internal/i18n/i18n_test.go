package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadBundle(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load("../../locales", "vi", []string{"vi", "en"})
	require.NoError(t, err)
	return b
}

func TestResolveHonorsQValues(t *testing.T) {
	b := loadBundle(t)
	require.Equal(t, "en", b.Resolve("vi;q=0.8, en;q=0.9"))
	require.Equal(t, "vi", b.Resolve("vi-VN,vi;q=0.9,en;q=0.5"))
	require.Equal(t, "en", b.Resolve("en-US"))
}

func TestResolveFallsBack(t *testing.T) {
	b := loadBundle(t)
	require.Equal(t, "vi", b.Resolve(""))
	require.Equal(t, "vi", b.Resolve("ja-JP"))
	require.Equal(t, "vi", b.Resolve(";;;"))
}

func TestTranslateFallsBackToDefaultThenKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vi.json"), []byte(`{"a":"một","b":"hai"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"a":"one"}`), 0o600))

	b, err := Load(dir, "vi", []string{"vi", "en"})
	require.NoError(t, err)
	require.Equal(t, "one", b.T("en", "a"))
	require.Equal(t, "hai", b.T("en", "b"))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
	require.Equal(t, []string{"en", "vi"}, b.Supported())
}

func TestLoadRequiresFallbackBundle(t *testing.T) {
	_, err := Load(t.TempDir(), "vi", []string{"vi", "en"})
	require.Error(t, err)
}

func TestLocaleFilesShareKeys(t *testing.T) {
	b := loadBundle(t)
	for key := range b.dict["vi"] {
		_, ok := b.dict["en"][key]
		require.True(t, ok, "en is missing %s", key)
	}
}
