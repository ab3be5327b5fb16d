package menu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"vitranbakery.vn/bakery-web/internal/catalog"
)

func testSnapshot(t *testing.T) catalog.Snapshot {
	t.Helper()
	snap, _ := catalog.Normalize([]catalog.RawItem{
		{Name: "Dâu Tây Hồng", Category: "Bánh Kem", ImageFiles: []string{"1.jpg"}, Folder: "kem"},
		{Name: "Butter Croissant", Category: "Bánh Ngọt", ImageFiles: []string{"1.jpg", "2.jpg"}, Folder: "ngot"},
		{Name: "Sô-cô-la", Category: "Bánh Kem", ImageFiles: []string{"2.mp4"}, Folder: "kem"},
		{Name: "Sourdough", Category: "Bread", ImageFiles: []string{"s.jpg"}, Folder: "bread"},
	}, "images")
	return snap
}

func TestAllViewGroupsInDisplayOrderAndOmitsEmpty(t *testing.T) {
	f := NewFilter(All)
	v := f.View(testSnapshot(t))

	require.True(t, v.Grouped)
	require.Len(t, v.Sections, 2, "mooncake and jelly have no products and must be omitted")
	require.Equal(t, catalog.CategoryCake, v.Sections[0].Category)
	require.Equal(t, catalog.CategoryPastry, v.Sections[1].Category)
	require.Len(t, v.Sections[0].Products, 2)
	for _, s := range v.Sections {
		for _, p := range s.Products {
			require.NotEqual(t, "Sourdough", p.Name, "unknown category stays out of the grouped view")
		}
	}
}

func TestAllViewIsIdempotent(t *testing.T) {
	snap := testSnapshot(t)
	f := NewFilter(All)
	first := f.View(snap)

	require.True(t, f.Select(Only(catalog.CategoryCake)))
	require.True(t, f.Select(All))
	second := f.View(snap)
	require.False(t, f.Select(All))
	third := f.View(snap)

	opt := cmp.AllowUnexported(Selection{})
	if diff := cmp.Diff(first, second, opt); diff != "" {
		t.Fatalf("grouped view changed after reselecting all (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(second, third, opt); diff != "" {
		t.Fatalf("grouped view changed on no-op select (-second +third):\n%s", diff)
	}
}

func TestSpecificCategoryIsFlat(t *testing.T) {
	f := NewFilter(All)
	require.True(t, f.Select(ParseSelection("banh-kem")))
	v := f.View(testSnapshot(t))

	require.False(t, v.Grouped)
	require.Empty(t, v.Sections)
	names := []string{v.Products[0].Name, v.Products[1].Name}
	require.Equal(t, []string{"Dâu Tây Hồng", "Sô-cô-la"}, names)
}

func TestCategoryWithoutProductsYieldsEmptyGrid(t *testing.T) {
	v := BuildView(Only(catalog.CategoryMooncake), testSnapshot(t))
	require.True(t, v.Empty())
	require.False(t, v.Grouped)
}

func TestUnknownSlugMatchesNothing(t *testing.T) {
	sel := ParseSelection("bread")
	require.False(t, sel.IsAll())
	_, ok := sel.Category()
	require.False(t, ok)
	require.Equal(t, "bread", sel.Slug())

	v := BuildView(sel, testSnapshot(t))
	require.True(t, v.Empty(), "unknown selection must not surface unknown-category products")
}

func TestSelectSameIsNoop(t *testing.T) {
	f := NewFilter(Only(catalog.CategoryJelly))
	require.False(t, f.Select(ParseSelection("RAU-CAU")))
	require.Equal(t, Only(catalog.CategoryJelly), f.Active())
}

func TestButtonsMarkActive(t *testing.T) {
	f := NewFilter(Selection{})
	buttons := f.Buttons()
	require.Len(t, buttons, 5)
	require.Equal(t, "all", buttons[0].Slug)
	require.True(t, buttons[0].Active)

	f.Select(Only(catalog.CategoryPastry))
	for _, b := range f.Buttons() {
		require.Equal(t, b.Slug == "banh-ngot", b.Active, b.Slug)
	}
}
