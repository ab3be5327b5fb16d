package seo

// OpenGraph holds og:* tags.
type OpenGraph struct {
	URL         string
	SiteName    string
	Title       string
	Description string
	Image       string
	Type        string
	Locale      string
}

// Twitter holds twitter:* tags.
type Twitter struct {
	Card  string
	Site  string
	Image string
}

// Alternate is an hreflang link.
type Alternate struct {
	Lang string
	Href string
}

// Meta is the head metadata of a page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	// JSONLD holds pre-serialized schema.org payloads.
	JSONLD []string
}
