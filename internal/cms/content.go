// Package cms serves the localized copy of the landing page: markdown sections
// (hero, story, mooncake feature) and YAML site data (pricing, testimonials, contact).
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a CMS resource cannot be located.
var ErrNotFound = errors.New("cms: not found")

// Section is one localized block of landing-page copy.
type Section struct {
	Slug      string
	Lang      string
	Eyebrow   string
	Title     string
	Subtitle  string
	Summary   string
	Body      string
	HTML      template.HTML
	Image     string
	ImageAlt  string
	CTALabel  string
	CTAHref   string
	UpdatedAt time.Time
}

type sectionFrontMatter struct {
	Eyebrow   string `yaml:"eyebrow"`
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Summary   string `yaml:"summary"`
	Lang      string `yaml:"lang"`
	Image     string `yaml:"image"`
	ImageAlt  string `yaml:"image_alt"`
	CTALabel  string `yaml:"cta_label"`
	CTAHref   string `yaml:"cta_href"`
	UpdatedAt string `yaml:"updated_at"`
}

const (
	defaultContentDir = "content"
	summaryMaxRunes   = 160
)

var (
	contentCache = struct {
		mu    sync.RWMutex
		items map[string]contentCacheEntry
	}{
		items: map[string]contentCacheEntry{},
	}
	contentCacheTTL = time.Minute * 5
)

type contentCacheEntry struct {
	value   any
	expires time.Time
}

// SetContentCacheDuration allows overriding the in-memory cache duration (primarily for tests).
func SetContentCacheDuration(d time.Duration) {
	if d <= 0 {
		d = time.Minute
	}
	contentCache.mu.Lock()
	contentCacheTTL = d
	contentCache.items = map[string]contentCacheEntry{}
	contentCache.mu.Unlock()
}

// Client reads section copy from an optional remote CMS, falling back to local files.
type Client struct {
	baseURL    string
	http       *http.Client
	contentDir string
	logger     *zap.Logger
	md         goldmark.Markdown
	policy     *bluemonday.Policy
}

// NewClient constructs a Client. An empty baseURL reads local files only.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:       &http.Client{Timeout: 5 * time.Second},
		contentDir: defaultContentDir,
		logger:     logger,
		md:         goldmark.New(goldmark.WithExtensions(extension.Typographer, extension.Linkify)),
		policy:     newSectionHTMLPolicy(),
	}
}

func newSectionHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// SetContentDir configures the directory for local markdown and YAML files.
func (c *Client) SetContentDir(dir string) {
	if c == nil {
		return
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	c.contentDir = dir
}

// ContentDir returns the configured local directory.
func (c *Client) ContentDir() string {
	if c == nil || strings.TrimSpace(c.contentDir) == "" {
		return defaultContentDir
	}
	return c.contentDir
}

// GetSection returns the rendered section for lang, falling back to the other
// supported languages when a translation is missing.
func (c *Client) GetSection(ctx context.Context, slug, lang string) (Section, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Section{}, ErrNotFound
	}
	lang = normalizeLang(lang)

	cacheKey := strings.Join([]string{"section", c.ContentDir(), lang, slug}, "|")
	if v, ok := cached(cacheKey); ok {
		return v.(Section), nil
	}

	sec, err := c.fetchSection(ctx, slug, lang)
	if err != nil {
		return Section{}, err
	}
	sec.HTML, err = c.render(sec.Body)
	if err != nil {
		return Section{}, fmt.Errorf("cms: render %s: %w", slug, err)
	}
	if sec.Summary == "" {
		sec.Summary = PlainText(string(sec.HTML), summaryMaxRunes)
	}
	store(cacheKey, sec)
	return sec, nil
}

func (c *Client) fetchSection(ctx context.Context, slug, lang string) (Section, error) {
	if c.baseURL != "" {
		sec, err := c.fetchSectionRemote(ctx, slug, lang)
		if err == nil {
			return sec, nil
		}
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("cms remote section fetch failed; using local copy",
				zap.String("slug", slug), zap.String("lang", lang), zap.Error(err))
		}
	}
	for _, candidate := range langPriority(lang) {
		sec, err := readSectionMarkdown(c.ContentDir(), slug, candidate)
		if err == nil {
			return sec, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return Section{}, err
	}
	return Section{}, ErrNotFound
}

func (c *Client) fetchSectionRemote(ctx context.Context, slug, lang string) (Section, error) {
	endpoint, err := url.JoinPath(c.baseURL, "content", "sections", slug)
	if err != nil {
		return Section{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Section{}, err
	}
	q := req.URL.Query()
	q.Set("lang", lang)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return Section{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return Section{}, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return Section{}, fmt.Errorf("cms: section remote status %d", resp.StatusCode)
	}

	var payload struct {
		Eyebrow   string    `json:"eyebrow"`
		Title     string    `json:"title"`
		Subtitle  string    `json:"subtitle"`
		Summary   string    `json:"summary"`
		Body      string    `json:"body"`
		Image     string    `json:"image"`
		ImageAlt  string    `json:"image_alt"`
		CTALabel  string    `json:"cta_label"`
		CTAHref   string    `json:"cta_href"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Section{}, err
	}
	if strings.TrimSpace(payload.Body) == "" && strings.TrimSpace(payload.Title) == "" {
		return Section{}, fmt.Errorf("cms: empty section %s", slug)
	}
	return Section{
		Slug:      slug,
		Lang:      lang,
		Eyebrow:   payload.Eyebrow,
		Title:     payload.Title,
		Subtitle:  payload.Subtitle,
		Summary:   payload.Summary,
		Body:      payload.Body,
		Image:     payload.Image,
		ImageAlt:  payload.ImageAlt,
		CTALabel:  payload.CTALabel,
		CTAHref:   payload.CTAHref,
		UpdatedAt: payload.UpdatedAt,
	}, nil
}

func (c *Client) render(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return template.HTML(c.policy.SanitizeBytes(buf.Bytes())), nil
}

func readSectionMarkdown(contentDir, slug, lang string) (Section, error) {
	file := filepath.Join(contentDir, "sections", lang, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Section{}, ErrNotFound
		}
		return Section{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := sectionFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Section{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	sec := Section{
		Slug:      slug,
		Lang:      firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Eyebrow:   strings.TrimSpace(front.Eyebrow),
		Title:     strings.TrimSpace(front.Title),
		Subtitle:  strings.TrimSpace(front.Subtitle),
		Summary:   strings.TrimSpace(front.Summary),
		Body:      body,
		Image:     strings.TrimSpace(front.Image),
		ImageAlt:  strings.TrimSpace(front.ImageAlt),
		CTALabel:  strings.TrimSpace(front.CTALabel),
		CTAHref:   strings.TrimSpace(front.CTAHref),
		UpdatedAt: parseContentDate(front.UpdatedAt),
	}
	if sec.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			sec.UpdatedAt = info.ModTime()
		}
	}
	return sec, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	switch lang {
	case "vi", "en":
		return lang
	default:
		return "vi"
	}
}

func langPriority(lang string) []string {
	if lang == "en" {
		return []string{"en", "vi"}
	}
	return []string{"vi", "en"}
}

func cached(key string) (any, bool) {
	now := time.Now()
	contentCache.mu.RLock()
	entry, ok := contentCache.items[key]
	contentCache.mu.RUnlock()
	if !ok || now.After(entry.expires) {
		return nil, false
	}
	return entry.value, true
}

func store(key string, value any) {
	contentCache.mu.Lock()
	defer contentCache.mu.Unlock()
	contentCache.items[key] = contentCacheEntry{
		value:   value,
		expires: time.Now().Add(contentCacheTTL),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
