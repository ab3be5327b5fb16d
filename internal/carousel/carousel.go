// Package carousel holds the slide navigation state shared by product cards and the
// full-screen media viewer.
package carousel

import (
	"errors"

	"vitranbakery.vn/bakery-web/internal/catalog"
)

// ErrEmpty is returned when a carousel is built over zero items.
var ErrEmpty = errors.New("carousel: no media items")

// Carousel tracks the current slide over n items. 0 <= Index() < Len() always holds.
type Carousel struct {
	n     int
	index int
}

// New starts a carousel at slide 0.
func New(n int) (*Carousel, error) {
	if n < 1 {
		return nil, ErrEmpty
	}
	return &Carousel{n: n}, nil
}

// At restores a carousel at index i. Out-of-range indexes fall back to 0.
func At(n, i int) (*Carousel, error) {
	c, err := New(n)
	if err != nil {
		return nil, err
	}
	c.GoTo(i)
	return c, nil
}

// Len returns the number of slides.
func (c *Carousel) Len() int { return c.n }

// Index returns the current slide.
func (c *Carousel) Index() int { return c.index }

// HasControls reports whether navigation controls should render.
func (c *Carousel) HasControls() bool { return c.n > 1 }

// Next advances one slide, wrapping from the last to the first.
func (c *Carousel) Next() {
	if c.index == c.n-1 {
		c.index = 0
		return
	}
	c.index++
}

// Previous moves back one slide, wrapping from the first to the last.
func (c *Carousel) Previous() {
	if c.index == 0 {
		c.index = c.n - 1
		return
	}
	c.index--
}

// GoTo jumps to slide i. Requests outside [0, Len()) are rejected and leave the state unchanged.
func (c *Carousel) GoTo(i int) bool {
	if i < 0 || i >= c.n {
		return false
	}
	c.index = i
	return true
}

// Apply runs a named navigation operation ("next", "prev", "goto").
func (c *Carousel) Apply(op string, to int) bool {
	switch op {
	case OpNext:
		c.Next()
		return true
	case OpPrevious:
		c.Previous()
		return true
	case OpGoTo:
		return c.GoTo(to)
	default:
		return false
	}
}

// Navigation operation names accepted by Apply.
const (
	OpNext     = "next"
	OpPrevious = "prev"
	OpGoTo     = "goto"
)

// Presentation describes how a slide renders in a given context.
type Presentation struct {
	Video       bool
	Autoplay    bool
	Loop        bool
	Muted       bool
	PlaysInline bool
	Controls    bool
	LazyLoad    bool
}

// InlinePresentation is the card rendering: videos autoplay muted on loop without controls.
func InlinePresentation(kind catalog.MediaKind) Presentation {
	if kind != catalog.MediaVideo {
		return Presentation{LazyLoad: true}
	}
	return Presentation{Video: true, Autoplay: true, Loop: true, Muted: true, PlaysInline: true}
}

// ViewerPresentation is the modal rendering: videos get transport controls and start muted.
func ViewerPresentation(kind catalog.MediaKind) Presentation {
	if kind != catalog.MediaVideo {
		return Presentation{}
	}
	return Presentation{Video: true, Autoplay: true, Loop: true, Muted: true, PlaysInline: true, Controls: true}
}
