package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newLocalClient(t *testing.T) *Client {
	t.Helper()
	SetContentCacheDuration(time.Minute)
	c := NewClient("", nil)
	c.SetContentDir("../../content")
	return c
}

func TestGetSectionRendersMarkdown(t *testing.T) {
	c := newLocalClient(t)
	sec, err := c.GetSection(context.Background(), "mooncake", "vi")
	require.NoError(t, err)
	require.Equal(t, "Mùa Trăng Yêu Thương 2025", sec.Eyebrow)
	require.Equal(t, "Hương Vị Đoàn Viên Trong Từng Chiếc Bánh", sec.Title)
	require.Contains(t, string(sec.HTML), "<strong>Vi Trần Handmade</strong>")
	require.NotEmpty(t, sec.Summary)
	require.NotContains(t, sec.Summary, "<")
	require.Equal(t, "#menu", sec.CTAHref)
}

func TestGetSectionFallsBackAcrossLanguages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sections", "vi"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sections", "vi", "only-vi.md"), []byte("---\ntitle: Chỉ tiếng Việt\n---\nXin chào"), 0o600))

	SetContentCacheDuration(time.Minute)
	c := NewClient("", nil)
	c.SetContentDir(dir)
	sec, err := c.GetSection(context.Background(), "only-vi", "en")
	require.NoError(t, err)
	require.Equal(t, "vi", sec.Lang)
	require.Equal(t, "Chỉ tiếng Việt", sec.Title)

	_, err = c.GetSection(context.Background(), "missing", "en")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.GetSection(context.Background(), "../secrets", "vi")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetSectionSanitizesHTML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sections", "vi"), 0o755))
	body := "---\ntitle: x\n---\nHello <script>alert(1)</script> [link](https://example.com)"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sections", "vi", "xss.md"), []byte(body), 0o600))

	SetContentCacheDuration(time.Minute)
	c := NewClient("", nil)
	c.SetContentDir(dir)
	sec, err := c.GetSection(context.Background(), "xss", "vi")
	require.NoError(t, err)
	require.NotContains(t, string(sec.HTML), "<script")
	require.Contains(t, string(sec.HTML), `rel="nofollow"`)
}

func TestGetSectionPrefersRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/content/sections/about":
			require.Equal(t, "en", r.URL.Query().Get("lang"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"title":"Remote story","body":"From the *CMS*"}`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	SetContentCacheDuration(time.Minute)
	c := NewClient(srv.URL, nil)
	c.SetContentDir("../../content")

	sec, err := c.GetSection(context.Background(), "about", "en")
	require.NoError(t, err)
	require.Equal(t, "Remote story", sec.Title)
	require.Contains(t, string(sec.HTML), "<em>CMS</em>")

	// remote failure falls back to local markdown
	sec, err = c.GetSection(context.Background(), "mooncake", "en")
	require.NoError(t, err)
	require.Equal(t, "The Taste of Reunion in Every Mooncake", sec.Title)
}

func TestGetSiteLoadsPricing(t *testing.T) {
	c := newLocalClient(t)
	site, err := c.GetSite("vi")
	require.NoError(t, err)
	require.Equal(t, "Vi Trần Handmade", site.Brand.Name)
	require.Len(t, site.Pricing.Items, 7)
	require.Equal(t, int64(110000), site.Pricing.Items[0].Price)
	last := site.Pricing.Items[len(site.Pricing.Items)-1]
	require.Len(t, last.Options, 2)
	require.Equal(t, int64(80000), last.Options[1].Price)
	require.NotNil(t, site.Pricing.Special)
	require.Equal(t, int64(120000), site.Pricing.Special.Price)
	require.Len(t, site.Testimonials.Items, 3)
	require.Equal(t, "hello@artisanbakery.com", site.Contact.Email)

	// callers get independent copies
	site.Pricing.Items[0].Price = 1
	again, err := c.GetSite("vi")
	require.NoError(t, err)
	require.Equal(t, int64(110000), again.Pricing.Items[0].Price)
}

func TestGetSiteEnglish(t *testing.T) {
	c := newLocalClient(t)
	site, err := c.GetSite("en-US")
	require.NoError(t, err)
	require.Equal(t, "en", site.Lang)
	require.Equal(t, "Visit Us", site.Contact.Title)
}

func TestPlainText(t *testing.T) {
	in := `<p>Bánh <strong>ngon</strong>&nbsp;lắm</p><script>var x = 1;</script><p>Thử   ngay</p>`
	require.Equal(t, "Bánh ngon lắm Thử ngay", PlainText(in, 0))

	long := "<p>" + strings.Repeat("bánh ", 50) + "</p>"
	out := PlainText(long, 20)
	require.True(t, strings.HasSuffix(out, "…"))
	require.LessOrEqual(t, len([]rune(out)), 21)
}
