package geo

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/edopt/chatbot/pkg/domain/model"
)

// MatchThreshold is the minimum fuzzy score (0-100) for a location to be accepted
const MatchThreshold = 80

type county struct {
	center model.Coordinates
	towns  []string
}

// Location is a resolved New Hampshire town or county
type Location struct {
	Name     string // lower-case canonical name
	Center   model.Coordinates
	IsCounty bool
}

// DisplayName returns the name with each word capitalized
func (l Location) DisplayName() string {
	words := strings.Fields(l.Name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CountyTowns returns the member towns when the location is a county
func (l Location) CountyTowns() []string {
	if !l.IsCounty {
		return nil
	}
	return slices.Clone(counties[l.Name].towns)
}

// Resolve maps free text such as "Concord", "Merrimack County" or a misspelled
// town name to a known location. Exact town names win over counties, so
// "Carroll" and "Grafton" resolve to the towns.
func Resolve(text string) (Location, bool) {
	q := normalize(text)
	if q == "" {
		return Location{}, false
	}

	if c, ok := towns[q]; ok {
		return Location{Name: q, Center: c}, true
	}

	for name, c := range counties {
		if q == name || q == name+" county" {
			return Location{Name: name, Center: c.center, IsCounty: true}, true
		}
	}

	if name, score := bestMatch(q, sortedKeys(towns)); score >= MatchThreshold {
		return Location{Name: name, Center: towns[name]}, true
	}

	if name, score := bestMatch(strings.TrimSuffix(q, " county"), sortedKeys(counties)); score >= MatchThreshold {
		return Location{Name: name, Center: counties[name].center, IsCounty: true}, true
	}

	return Location{}, false
}

// NearbyTown is a town with its distance from a reference location
type NearbyTown struct {
	Name   string
	Center model.Coordinates
	Miles  float64
}

// NearbyTowns lists towns within maxMiles of loc ordered by distance. For a
// county every member town is returned regardless of maxMiles.
func NearbyTowns(loc Location, maxMiles float64) []NearbyTown {
	var result []NearbyTown
	if loc.IsCounty {
		for _, name := range counties[loc.Name].towns {
			c, ok := towns[name]
			if !ok {
				continue
			}
			result = append(result, NearbyTown{Name: name, Center: c, Miles: model.MilesBetween(loc.Center, c)})
		}
	} else {
		for _, name := range sortedKeys(towns) {
			c := towns[name]
			if d := model.MilesBetween(loc.Center, c); d <= maxMiles {
				result = append(result, NearbyTown{Name: name, Center: c, Miles: d})
			}
		}
	}

	slices.SortStableFunc(result, func(a, b NearbyTown) int {
		switch {
		case a.Miles < b.Miles:
			return -1
		case a.Miles > b.Miles:
			return 1
		default:
			return 0
		}
	})
	return result
}

func normalize(text string) string {
	q := strings.ToLower(strings.TrimSpace(text))
	for _, suffix := range []string{", new hampshire", " new hampshire", ", nh", " nh"} {
		q = strings.TrimSuffix(q, suffix)
	}
	return strings.Join(strings.Fields(q), " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// bestMatch returns the candidate with the highest similarity to q. Earlier
// candidates win ties.
func bestMatch(q string, candidates []string) (string, int) {
	best, bestScore := "", -1
	for _, c := range candidates {
		if s := similarity(q, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

// similarity scores two strings from 0 to 100 by edit distance. When one string
// is much longer than the other, the best matching window of the longer string
// is also considered at a discount, so "downtown concord" still matches "concord".
func similarity(a, b string) int {
	score := ratio(a, b)

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 || float64(len(longer))/float64(len(shorter)) < 1.5 {
		return score
	}

	partial := 0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		partial = max(partial, ratio(string(shorter), string(longer[i:i+len(shorter)])))
	}
	return max(score, partial*9/10)
}

func ratio(a, b string) int {
	n := max(len([]rune(a)), len([]rune(b)))
	if n == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return (100*(n-d) + n/2) / n
}
