package cms

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Site holds the structured copy of the landing page that is not prose.
type Site struct {
	Lang         string       `yaml:"-"`
	Brand        Brand        `yaml:"brand"`
	Pricing      Pricing      `yaml:"pricing"`
	Testimonials Testimonials `yaml:"testimonials"`
	Contact      Contact      `yaml:"contact"`
}

// Brand names the shop.
type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Logo    string `yaml:"logo"`
}

// Pricing is the seasonal price table.
type Pricing struct {
	Title   string      `yaml:"title"`
	Items   []PriceItem `yaml:"items"`
	Special *Special    `yaml:"special"`
	Closing string      `yaml:"closing"`
}

// PriceItem is one row of the price table. Options lists alternative sizes or
// fillings sharing the row; Price is in VND and zero when Options carry prices.
type PriceItem struct {
	Name    string        `yaml:"name"`
	Details string        `yaml:"details"`
	Price   int64         `yaml:"price"`
	Options []PriceOption `yaml:"options"`
}

// PriceOption is a priced variant of a PriceItem.
type PriceOption struct {
	Label string `yaml:"label"`
	Price int64  `yaml:"price"`
}

// Special is the highlighted offer below the price table.
type Special struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Price int64  `yaml:"price"`
	Unit  string `yaml:"unit"`
	Icon  string `yaml:"icon"`
}

// Testimonials is the customer quote block.
type Testimonials struct {
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Items    []Testimonial `yaml:"items"`
}

// Testimonial is one customer quote.
type Testimonial struct {
	Quote  string `yaml:"quote"`
	Author string `yaml:"author"`
}

// Contact is the visit-us block.
type Contact struct {
	Title        string   `yaml:"title"`
	Subtitle     string   `yaml:"subtitle"`
	AddressLines []string `yaml:"address"`
	Hours        []string `yaml:"hours"`
	Email        string   `yaml:"email"`
	Phone        string   `yaml:"phone"`
}

// GetSite loads content/site/{lang}.yaml, falling back to the other language.
func (c *Client) GetSite(lang string) (Site, error) {
	lang = normalizeLang(lang)
	cacheKey := strings.Join([]string{"site", c.ContentDir(), lang}, "|")
	if v, ok := cached(cacheKey); ok {
		return cloneSite(v.(Site)), nil
	}
	for _, candidate := range langPriority(lang) {
		site, err := readSiteYAML(c.ContentDir(), candidate)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Site{}, err
		}
		store(cacheKey, site)
		return cloneSite(site), nil
	}
	return Site{}, ErrNotFound
}

func readSiteYAML(contentDir, lang string) (Site, error) {
	file := filepath.Join(contentDir, "site", lang+".yaml")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Site{}, ErrNotFound
		}
		return Site{}, err
	}
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return Site{}, fmt.Errorf("cms: parse %s: %w", file, err)
	}
	site.Lang = lang
	return site, nil
}

func cloneSite(src Site) Site {
	cp := src
	cp.Pricing.Items = make([]PriceItem, len(src.Pricing.Items))
	for i, item := range src.Pricing.Items {
		item.Options = append([]PriceOption(nil), item.Options...)
		cp.Pricing.Items[i] = item
	}
	if src.Pricing.Special != nil {
		sp := *src.Pricing.Special
		cp.Pricing.Special = &sp
	}
	cp.Testimonials.Items = append([]Testimonial(nil), src.Testimonials.Items...)
	cp.Contact.AddressLines = append([]string(nil), src.Contact.AddressLines...)
	cp.Contact.Hours = append([]string(nil), src.Contact.Hours...)
	return cp
}
