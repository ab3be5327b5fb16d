package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRaw() []RawItem {
	return []RawItem{
		{Name: "Butter Croissant", Description: "Flaky", Category: "Bánh Ngọt", ImageFiles: []string{"a.jpg", "b.JPG"}, Folder: "croissant"},
		{Name: "Dâu Tây Hồng", Description: "Strawberry", Category: "Bánh Kem", ImageFiles: []string{"cake.webp", "spin.mp4"}, Folder: "banh kem"},
		{Name: "Thạch Dừa", Category: "Rau Câu", ImageFiles: []string{"clip.WEBM"}, Folder: "rau-cau"},
	}
}

func TestNormalizeEveryProductHasMedia(t *testing.T) {
	raw := append(sampleRaw(),
		RawItem{Name: "No Media", Category: "Bánh Kem"},
		RawItem{Name: "Blank Files", Category: "Bánh Kem", ImageFiles: []string{" ", ""}},
	)
	snap, report := Normalize(raw, "images")

	require.Equal(t, 3, snap.Len())
	for _, p := range snap.Products() {
		require.NotEmpty(t, p.Media, "product %s must have media", p.Name)
	}
	require.Len(t, report.Rejected, 2)
	require.Equal(t, "no media files", report.Rejected[0].Reason)
}

func TestNormalizeClassifiesAndResolvesMedia(t *testing.T) {
	snap, _ := Normalize(sampleRaw(), "images")

	cake, ok := snap.ByName("Dâu Tây Hồng")
	require.True(t, ok)
	require.Equal(t, []MediaItem{
		{URL: "/images/banh%20kem/cake.webp", Kind: MediaImage},
		{URL: "/images/banh%20kem/spin.mp4", Kind: MediaVideo},
	}, cake.Media)
	require.Equal(t, "dau-tay-hong", cake.Slug)
	require.Equal(t, CategoryCake, cake.Category)

	jelly, ok := snap.BySlug("thach-dua")
	require.True(t, ok)
	require.True(t, jelly.Cover().IsVideo(), "extension match is case-insensitive")
}

func TestNormalizeBucketsUnknownCategory(t *testing.T) {
	snap, report := Normalize([]RawItem{
		{Name: "Sourdough", Category: "Bread", ImageFiles: []string{"s.jpg"}, Folder: "bread"},
	}, "")

	p, ok := snap.ByName("Sourdough")
	require.True(t, ok)
	require.Equal(t, CategoryUnknown, p.Category)
	require.Equal(t, []string{"Bread"}, report.UnknownCategories)
	require.Equal(t, "/images/bread/s.jpg", p.Cover().URL)
}

func TestNormalizeRejectsDuplicateNames(t *testing.T) {
	snap, report := Normalize([]RawItem{
		{Name: "Bông Lan", Category: "Bánh Ngọt", ImageFiles: []string{"1.jpg"}},
		{Name: "Bông Lan", Category: "Bánh Ngọt", ImageFiles: []string{"2.jpg"}},
		{Name: "  ", Category: "Bánh Ngọt", ImageFiles: []string{"3.jpg"}},
	}, "images")

	require.Equal(t, 1, snap.Len())
	require.Len(t, report.Rejected, 2)
	require.Equal(t, "duplicate name", report.Rejected[0].Reason)
	require.Equal(t, "missing name", report.Rejected[1].Reason)
}

func TestByNameMatchesDecomposedForm(t *testing.T) {
	snap, _ := Normalize(sampleRaw(), "images")
	// "Dâu Tây Hồng" written with combining marks
	decomposed := "Da\u0302u Ta\u0302y Ho\u0302\u0300ng"
	p, ok := snap.ByName(decomposed)
	require.True(t, ok)
	require.Equal(t, "Dâu Tây Hồng", p.Name)

	_, ok = snap.ByName("dâu tây hồng")
	require.False(t, ok, "name lookup is case-sensitive")
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Dâu Tây Hồng":           "dau-tay-hong",
		"Bánh Đậu Xanh":          "banh-dau-xanh",
		"  Mochi -- Matcha!! ":    "mochi-matcha",
		"Butter Croissant (x2)":  "butter-croissant-x2",
		"Thập cẩm chà bông 200g": "thap-cam-cha-bong-200g",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugCollisionsGetSuffix(t *testing.T) {
	snap, _ := Normalize([]RawItem{
		{Name: "Bánh Dẻo", Category: "Bánh Trung Thu", ImageFiles: []string{"1.jpg"}},
		{Name: "Banh Deo", Category: "Bánh Trung Thu", ImageFiles: []string{"2.jpg"}},
	}, "images")
	_, ok := snap.BySlug("banh-deo")
	require.True(t, ok)
	p, ok := snap.BySlug("banh-deo-2")
	require.True(t, ok)
	require.Equal(t, "Banh Deo", p.Name)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"name":"not an array"}`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestCategorySlugsRoundTrip(t *testing.T) {
	for _, c := range DisplayOrder {
		got, ok := CategoryFromSlug(c.Slug())
		require.True(t, ok)
		require.Equal(t, c, got)
		require.Equal(t, c, ParseCategory(c.Label()))
	}
	_, ok := CategoryFromSlug("bread")
	require.False(t, ok)
}
