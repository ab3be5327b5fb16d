package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vitranbakery.vn/bakery-web/internal/cms"
	"vitranbakery.vn/bakery-web/internal/config"
)

func TestBuildHomeDataDefaults(t *testing.T) {
	vm := BuildHomeData("vi", "/", cms.Site{}, false)
	require.Equal(t, "Vi Trần Handmade", vm.Title)
	require.Equal(t, "#home", vm.HomeHref)
	require.Len(t, vm.Nav, 4)

	vm = BuildHomeData("en", "/", cms.Site{Brand: cms.Brand{Name: "Bakery"}}, true)
	require.Equal(t, "Bakery", vm.Title)
	require.Len(t, vm.Nav, 5)
}

func TestAnalyticsFromConfig(t *testing.T) {
	a := AnalyticsFromConfig(config.AnalyticsConfig{GA4MeasurementID: "G-1"})
	require.True(t, a.Enabled())
	require.False(t, AnalyticsFromConfig(config.AnalyticsConfig{}).Enabled())
}
