package domain

import (
	"encoding/base64"
	"strings"
	"time"
)

// Map scopes consumed by the rendering collaborator.
const (
	ScopeWorld = "world"
	ScopeUSA   = "usa"
)

// RegionProjection holds the projection parameters for a named regional
// view: the center the map is panned to and the relative scale applied on
// top of the world projection.
type RegionProjection struct {
	CenterLon float64 `json:"center_lon"`
	CenterLat float64 `json:"center_lat"`
	Scale     float64 `json:"scale"`
}

// regionProjections carries the per-region pan/zoom parameters. USA is
// absent on purpose: it switches scope to the dedicated US-state layer
// instead of re-projecting the world map.
var regionProjections = map[string]RegionProjection{
	"Europe": {CenterLon: 15, CenterLat: 54, Scale: 3.5},
	"Asia":   {CenterLon: 100, CenterLat: 34, Scale: 2.0},
	"Lat-Am": {CenterLon: -70, CenterLat: -15, Scale: 2.2},
	"NA":     {CenterLon: -100, CenterLat: 45, Scale: 2.0},
	"AfME":   {CenterLon: 30, CenterLat: 10, Scale: 2.2},
}

// ProjectionForRegion returns the pan/zoom parameters for a named region,
// or nil when the region has none (unknown regions and USA).
func ProjectionForRegion(region string) *RegionProjection {
	if p, ok := regionProjections[region]; ok {
		return &p
	}
	return nil
}

// LegendEntry is one row of the rendered legend. Label carries the display
// form (transposed on the world map); Color is nil for colorless cohorts.
type LegendEntry struct {
	Label string  `json:"label"`
	Color *string `json:"color"`
}

// MapViewModel is the complete presentation dataset for one update cycle:
// everything the external choropleth library needs, and nothing DOM-shaped.
type MapViewModel struct {
	Title      string            `json:"title"`
	Scope      string            `json:"scope"`
	Region     string            `json:"region,omitempty"`
	Projection *RegionProjection `json:"projection,omitempty"`

	Fills  map[string]string   `json:"fills"`
	Data   map[string]GeoDatum `json:"data"`
	Legend []LegendEntry       `json:"legend"`

	Highlights  []string `json:"highlights,omitempty"`
	HeaderImage string   `json:"header_image,omitempty"`
	FooterImage string   `json:"footer_image,omitempty"`

	Generation  uint64    `json:"generation"`
	UpdateID    string    `json:"update_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Stats ViewStats `json:"stats"`
}

// ViewStats summarizes how much of the source table survived the joins.
type ViewStats struct {
	Records      int `json:"records"`
	InScope      int `json:"in_scope"`
	DroppedGeo   int `json:"dropped_geo"`
	DroppedColor int `json:"dropped_color"`
}

// ViewOptions is the settings surface the host exposes for the visual.
type ViewOptions struct {
	Title           string
	RegionalMap     bool
	DefaultRegion   string
	ShowHighlights  bool
	ShowHeaderImage bool
	ShowFooterImage bool
}

// BuildMapView assembles the view model for one update cycle. World mode
// shows every record joined by country with transposed legend labels.
// Regional mode partitions by the resolved region first; the USA region
// switches to the US-state layer, any other region keeps the world layer
// with that region's projection and the numeric legend ordering.
func BuildMapView(records []FacilityRecord, opts ViewOptions) MapViewModel {
	view := MapViewModel{
		Title:       opts.Title,
		Scope:       ScopeWorld,
		GeneratedAt: clock.Now(),
	}

	inScope := records
	keyField := KeyCountry

	if opts.RegionalMap {
		region := ResolveCurrentRegion(records, opts.DefaultRegion, true)
		inScope = PartitionByRegion(records, region)
		view.Region = region
		if region == RegionUSA {
			view.Scope = ScopeUSA
			keyField = KeyState
		} else {
			view.Projection = ProjectionForRegion(region)
		}
	}

	var distinct []string
	if opts.RegionalMap {
		distinct = DistinctLaunchValuesNumeric(inScope)
	} else {
		distinct = DistinctLaunchValues(inScope)
	}

	index := BuildYearColorIndex(inScope, distinct)
	view.Fills = BuildFillPalette(index)
	view.Data = BuildGeoColorMap(inScope, keyField, index)
	view.Legend = buildLegend(index, !opts.RegionalMap)
	view.Stats = buildStats(records, inScope, keyField, index)

	if opts.ShowHighlights {
		view.Highlights = collectHighlights(inScope)
	}
	if opts.ShowHeaderImage {
		view.HeaderImage = firstValidImage(inScope, func(r FacilityRecord) *string { return r.HeaderImage })
	}
	if opts.ShowFooterImage {
		view.FooterImage = firstValidImage(inScope, func(r FacilityRecord) *string { return r.FooterImage })
	}

	return view
}

// buildStats counts the in-scope records the joins excluded: geographies
// that resolve against neither code table, and cohorts without a color.
func buildStats(records, inScope []FacilityRecord, keyField GeoKeyField, index []YearColorEntry) ViewStats {
	stats := ViewStats{Records: len(records), InScope: len(inScope)}
	for _, rec := range inScope {
		if _, ok := resolveGeoCode(rec, keyField); !ok {
			stats.DroppedGeo++
			continue
		}
		if rec.Launch == nil || ColorForLaunch(index, *rec.Launch) == nil {
			stats.DroppedColor++
		}
	}
	return stats
}

// buildLegend renders the year/color index as legend rows. Only the world
// legend transposes quarter-year labels.
func buildLegend(index []YearColorEntry, transpose bool) []LegendEntry {
	legend := make([]LegendEntry, 0, len(index))
	for _, entry := range index {
		label := entry.Year
		if transpose {
			label = TransposeLegendLabel(label)
		}
		legend = append(legend, LegendEntry{Label: label, Color: entry.Color})
	}
	return legend
}

// collectHighlights gathers the non-null highlight texts of the in-scope
// records in record order. Sanitization happens at the rendering boundary.
func collectHighlights(records []FacilityRecord) []string {
	var highlights []string
	for _, rec := range records {
		if rec.Highlights != nil && *rec.Highlights != "" {
			highlights = append(highlights, *rec.Highlights)
		}
	}
	return highlights
}

// firstValidImage returns the first non-null image value that passes data
// URL validation. Invalid values are suppressed, never surfaced as errors.
func firstValidImage(records []FacilityRecord, field func(FacilityRecord) *string) string {
	for _, rec := range records {
		if v := field(rec); v != nil && ValidImageDataURL(*v) {
			return *v
		}
	}
	return ""
}

// ValidImageDataURL reports whether s is a base64 image data URL the
// header/footer slots will accept: an image media type and a payload that
// actually decodes.
func ValidImageDataURL(s string) bool {
	if !strings.HasPrefix(s, "data:image/") {
		return false
	}
	rest := s[len("data:image/"):]
	sep := strings.Index(rest, ";base64,")
	if sep <= 0 {
		return false
	}
	payload := rest[sep+len(";base64,"):]
	if payload == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(payload)
	return err == nil
}
