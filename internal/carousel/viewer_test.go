package carousel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwipeThresholds(t *testing.T) {
	cases := []struct {
		name string
		g    Gesture
		want SwipeDirection
	}{
		{"small drag snaps back", Gesture{OffsetX: -20, VelocityX: -5}, SwipeNone},
		{"left past offset", Gesture{OffsetX: -51}, SwipeNext},
		{"right past offset", Gesture{OffsetX: 51}, SwipePrevious},
		{"exactly threshold is ignored", Gesture{OffsetX: 50}, SwipeNone},
		{"fast short flick left", Gesture{OffsetX: -30, VelocityX: -40}, SwipeNext},
		{"fast short flick right", Gesture{OffsetX: 30, VelocityX: 40}, SwipePrevious},
		{"slow short drag", Gesture{OffsetX: 30, VelocityX: 10}, SwipeNone},
		{"flick velocity decides on tiny offset", Gesture{OffsetX: 10, VelocityX: -200}, SwipeNext},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Swipe(tc.g))
		})
	}
}

func TestViewerOpenMirrorsCarouselThenAdvancesIndependently(t *testing.T) {
	card, err := At(3, 1)
	require.NoError(t, err)

	v, err := NewViewer(card.Len())
	require.NoError(t, err)
	require.False(t, v.IsOpen())
	require.True(t, v.Open(card.Index()))
	require.True(t, v.IsOpen())
	require.Equal(t, 1, v.Index())

	v.Next()
	v.Next()
	require.Equal(t, 0, v.Index())
	require.Equal(t, 1, card.Index(), "card carousel is unaffected")
}

func TestViewerOpenRejectsOutOfRange(t *testing.T) {
	v, err := NewViewer(2)
	require.NoError(t, err)
	require.False(t, v.Open(2))
	require.False(t, v.IsOpen())
}

func TestViewerIgnoresNavigationWhileClosed(t *testing.T) {
	v, err := NewViewer(3)
	require.NoError(t, err)
	v.Next()
	require.Equal(t, SwipeNone, v.Drag(Gesture{OffsetX: -200}))
	require.Equal(t, 0, v.Index())

	require.True(t, v.Open(0))
	require.Equal(t, SwipeNext, v.Drag(Gesture{OffsetX: -200}))
	require.Equal(t, 1, v.Index())
	require.Equal(t, SwipePrevious, v.Drag(Gesture{OffsetX: 120}))
	require.Equal(t, SwipePrevious, v.Drag(Gesture{OffsetX: 120}))
	require.Equal(t, 2, v.Index())

	v.Close()
	require.False(t, v.IsOpen())
}
