package places

import (
	"fmt"
	"sort"
	"strings"

	a "github.com/petar-dambovaliev/aho-corasick"
)

// QuerySpec is one upstream nearby-search (type, keyword) pair.
type QuerySpec struct {
	Type    string
	Keyword string
}

// CategorySpec describes how an activity category is searched upstream.
// NameOverrides lists name fragments that keep a lodging-tagged place in the
// results; only wine-like categories declare them.
type CategorySpec struct {
	Queries       []QuerySpec
	NameOverrides []string
	matcher       *a.AhoCorasick
}

const DefaultCategory = "default"

var wineOverrides = []string{"wine", "vinho", "vineyard", "winery"}

var wineQueries = []QuerySpec{
	{Type: "tourist_attraction", Keyword: "winery OR vineyard"},
	{Type: "food", Keyword: "wine tasting OR wine bar"},
}

var categories = map[string]*CategorySpec{
	"hiking":          {Queries: []QuerySpec{{Type: "natural_feature", Keyword: "hiking trail mountain"}}},
	"museum":          {Queries: []QuerySpec{{Type: "museum"}}},
	"wine":            {Queries: wineQueries, NameOverrides: wineOverrides},
	"vineyard tours":  {Queries: wineQueries, NameOverrides: wineOverrides},
	"coffee":          {Queries: []QuerySpec{{Type: "cafe", Keyword: "coffee"}}},
	"mushroom":        {Queries: []QuerySpec{{Type: "natural_feature", Keyword: "forest park"}}},
	"culture":         {Queries: []QuerySpec{{Type: "museum", Keyword: "museum"}}},
	"nature":          {Queries: []QuerySpec{{Type: "park", Keyword: "nature"}}},
	"food":            {Queries: []QuerySpec{{Type: "restaurant", Keyword: "restaurant"}}},
	"shopping":        {Queries: []QuerySpec{{Type: "shopping_mall", Keyword: "shopping"}}},
	"nightlife":       {Queries: []QuerySpec{{Type: "bar", Keyword: "nightlife"}}},
	"historical":      {Queries: []QuerySpec{{Type: "tourist_attraction", Keyword: "historical"}}},
	"art":             {Queries: []QuerySpec{{Type: "art_gallery", Keyword: "art"}}},
	"theatre":         {Queries: []QuerySpec{{Type: "establishment", Keyword: "theatre OR theater OR opera house OR performing arts"}}},
	"performing_arts": {Queries: []QuerySpec{{Type: "establishment", Keyword: "theatre OR theater OR opera house OR concert hall"}}},
	DefaultCategory:   {Queries: []QuerySpec{{Type: "point_of_interest"}}},
}

var lodgingTypes = []string{"lodging", "hotel"}

func init() {
	for _, spec := range categories {
		if len(spec.NameOverrides) == 0 {
			continue
		}
		b := a.NewAhoCorasickBuilder(a.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  false,
		})
		m := b.Build(spec.NameOverrides)
		spec.matcher = &m
	}
}

// ValidateCategories checks the category table once at startup.
func ValidateCategories() error {
	var errs []string
	if _, ok := categories[DefaultCategory]; !ok {
		errs = append(errs, "missing default category")
	}
	for _, name := range CategoryNames() {
		spec := categories[name]
		if len(spec.Queries) == 0 {
			errs = append(errs, fmt.Sprintf("category %q has no queries", name))
		}
		for i, q := range spec.Queries {
			if strings.TrimSpace(q.Type) == "" {
				errs = append(errs, fmt.Sprintf("category %q query %d has no place type", name, i))
			}
		}
		if len(spec.NameOverrides) > 0 && spec.matcher == nil {
			errs = append(errs, fmt.Sprintf("category %q overrides were not compiled", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid category table:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// CategoryNames returns the known categories in a stable order.
func CategoryNames() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupCategory resolves an activity category, falling back to the default.
func LookupCategory(category string) *CategorySpec {
	if spec, ok := categories[strings.ToLower(strings.TrimSpace(category))]; ok {
		return spec
	}
	return categories[DefaultCategory]
}

// QueriesFor returns the queries to issue. A non-empty keyword replaces every
// table keyword.
func (c *CategorySpec) QueriesFor(keyword string) []QuerySpec {
	keyword = strings.TrimSpace(keyword)
	out := make([]QuerySpec, len(c.Queries))
	for i, q := range c.Queries {
		out[i] = q
		if keyword != "" {
			out[i].Keyword = keyword
		}
	}
	return out
}

// Keep reports whether a place survives the lodging filter.
func (c *CategorySpec) Keep(name string, placeTypes []string) bool {
	if !isLodging(placeTypes) {
		return true
	}
	if c.matcher == nil {
		return false
	}
	return c.matcher.Iter(strings.ToLower(name)).Next() != nil
}

func isLodging(placeTypes []string) bool {
	for _, t := range placeTypes {
		for _, l := range lodgingTypes {
			if strings.EqualFold(t, l) {
				return true
			}
		}
	}
	return false
}
