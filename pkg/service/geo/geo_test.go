package geo_test

import (
	"testing"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/service/geo"
	"github.com/m-mizutani/gt"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		isCounty bool
	}{
		{"exact town", "Concord", "concord", false},
		{"town with state suffix", "Concord, NH", "concord", false},
		{"multi-word town", "north hampton", "north hampton", false},
		{"county", "Merrimack County", "merrimack", true},
		{"bare county name", "coos", "coos", true},
		{"town wins over county with same name", "Carroll", "carroll", false},
		{"misspelled town", "Concrd", "concord", false},
		{"misspelled town 2", "Portsmuth", "portsmouth", false},
		{"extra whitespace", "  Keene  ", "keene", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := geo.Resolve(tt.input)
			gt.Bool(t, ok).True()
			gt.Value(t, loc.Name).Equal(tt.want)
			gt.Value(t, loc.IsCounty).Equal(tt.isCounty)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	for _, input := range []string{"", "Boston, MA", "zzzzzz"} {
		_, ok := geo.Resolve(input)
		gt.Bool(t, ok).False()
	}
}

func TestResolveCenters(t *testing.T) {
	town, ok := geo.Resolve("Concord")
	gt.Bool(t, ok).True()
	gt.Value(t, town.Center).Equal(model.Coordinates{Latitude: 43.2081, Longitude: -71.5376})

	county, ok := geo.Resolve("Belknap County")
	gt.Bool(t, ok).True()
	gt.Value(t, county.Center).Equal(model.Coordinates{Latitude: 43.52, Longitude: -71.4234})
}

func TestLocation_DisplayName(t *testing.T) {
	loc, ok := geo.Resolve("new london")
	gt.Bool(t, ok).True()
	gt.Value(t, loc.DisplayName()).Equal("New London")
}

func TestLocation_CountyTowns(t *testing.T) {
	county, ok := geo.Resolve("Strafford County")
	gt.Bool(t, ok).True()
	gt.Array(t, county.CountyTowns()).Has("dover")

	town, ok := geo.Resolve("Dover")
	gt.Bool(t, ok).True()
	gt.Array(t, town.CountyTowns()).Length(0)
}

func TestNearbyTowns(t *testing.T) {
	concord, ok := geo.Resolve("Concord")
	gt.Bool(t, ok).True()

	nearby := geo.NearbyTowns(concord, 10)
	gt.Bool(t, len(nearby) > 1).True()
	gt.Value(t, nearby[0].Name).Equal("concord")
	for i, n := range nearby {
		gt.Bool(t, n.Miles <= 10).True()
		if i > 0 {
			gt.Bool(t, nearby[i-1].Miles <= n.Miles).True()
		}
	}

	county, ok := geo.Resolve("Sullivan County")
	gt.Bool(t, ok).True()
	gt.Array(t, geo.NearbyTowns(county, 0)).Length(len(county.CountyTowns()))
}
