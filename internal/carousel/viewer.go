package carousel

import "math"

// Swipe thresholds: a drag moves the viewer when its horizontal offset passes
// SwipeThreshold pixels or |offset|*velocity passes SwipePowerThreshold.
const (
	SwipeThreshold      = 50.0
	SwipePowerThreshold = 1000.0
)

// Gesture is the end state of a horizontal drag.
type Gesture struct {
	OffsetX   float64
	VelocityX float64
}

// SwipeDirection is the navigation a gesture resolves to.
type SwipeDirection int

const (
	SwipeNone SwipeDirection = iota
	SwipeNext
	SwipePrevious
)

// Swipe classifies a drag. Dragging left shows the next item, right the previous one;
// anything under both thresholds snaps back.
func Swipe(g Gesture) SwipeDirection {
	power := math.Abs(g.OffsetX) * g.VelocityX
	switch {
	case g.OffsetX < -SwipeThreshold || power < -SwipePowerThreshold:
		return SwipeNext
	case g.OffsetX > SwipeThreshold || power > SwipePowerThreshold:
		return SwipePrevious
	default:
		return SwipeNone
	}
}

// Viewer is the full-screen overlay over the same media as a card's carousel.
type Viewer struct {
	open  bool
	slide *Carousel
}

// NewViewer builds a closed viewer over n items.
func NewViewer(n int) (*Viewer, error) {
	c, err := New(n)
	if err != nil {
		return nil, err
	}
	return &Viewer{slide: c}, nil
}

// Open shows the viewer at index at, mirroring the originating carousel.
// An out-of-range index is rejected and the viewer stays as it was.
func (v *Viewer) Open(at int) bool {
	if !v.slide.GoTo(at) {
		return false
	}
	v.open = true
	return true
}

// Close hides the viewer.
func (v *Viewer) Close() { v.open = false }

// IsOpen reports whether the overlay is visible.
func (v *Viewer) IsOpen() bool { return v.open }

// Index returns the item on screen.
func (v *Viewer) Index() int { return v.slide.Index() }

// Len returns the number of items.
func (v *Viewer) Len() int { return v.slide.Len() }

// HasControls reports whether previous/next controls render.
func (v *Viewer) HasControls() bool { return v.slide.HasControls() }

// Next advances with wraparound. Ignored while closed.
func (v *Viewer) Next() {
	if v.open {
		v.slide.Next()
	}
}

// Previous steps back with wraparound. Ignored while closed.
func (v *Viewer) Previous() {
	if v.open {
		v.slide.Previous()
	}
}

// Drag applies a swipe gesture and returns what it resolved to.
func (v *Viewer) Drag(g Gesture) SwipeDirection {
	if !v.open {
		return SwipeNone
	}
	dir := Swipe(g)
	switch dir {
	case SwipeNext:
		v.slide.Next()
	case SwipePrevious:
		v.slide.Previous()
	}
	return dir
}
