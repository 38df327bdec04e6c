package domain

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultFillKey is the palette key the mapping library falls back to for
// shapes with no cohort entry.
const DefaultFillKey = "defaultFill"

// defaultFillColor is the neutral gray painted on unmatched geographies.
const defaultFillColor = "#d3d3d3"

// YearColorEntry pairs a distinct Launch label with its cohort color. Color
// is nil when the label's first record carried no color.
type YearColorEntry struct {
	Year  string  `json:"year"`
	Color *string `json:"color"`
}

// GeoDatum is one colored, clickable shape in the map dataset.
type GeoDatum struct {
	FillKey      string `json:"fillKey"`
	SelectionID  string `json:"selection_id"`
	DocumentLink string `json:"document_link,omitempty"`
}

// GeoKeyField selects which record field joins against the geo code tables.
type GeoKeyField int

const (
	// KeyCountry joins Country against the country → ISO3 table.
	KeyCountry GeoKeyField = iota
	// KeyState joins State against the US state → two-letter code table.
	KeyState
)

// DistinctLaunchValues returns the unique non-null Launch labels, sorted
// lexicographically ascending. First-occurrence order is preserved before
// the sort so equal elements keep a deterministic arrangement.
func DistinctLaunchValues(records []FacilityRecord) []string {
	values := distinctLaunchValues(records)
	sort.Strings(values)
	return values
}

// DistinctLaunchValuesNumeric is the regional-map variant: labels sort by
// numeric coercion so year ordering holds even when a non-numeric token is
// attached ("Q1 2024" sorts as 2024). Labels with no numeric token sort
// after all numeric ones, keeping their first-occurrence order.
func DistinctLaunchValuesNumeric(records []FacilityRecord) []string {
	values := distinctLaunchValues(records)
	sort.SliceStable(values, func(i, j int) bool {
		return launchSortValue(values[i]) < launchSortValue(values[j])
	})
	return values
}

func distinctLaunchValues(records []FacilityRecord) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, rec := range records {
		if rec.Launch == nil {
			continue
		}
		if _, ok := seen[*rec.Launch]; ok {
			continue
		}
		seen[*rec.Launch] = struct{}{}
		values = append(values, *rec.Launch)
	}
	return values
}

// launchSortValue coerces a Launch label to a number: the first token that
// parses as a float wins. Non-numeric labels coerce to +Inf-like ordering
// via a sentinel beyond any plausible year.
func launchSortValue(label string) float64 {
	for _, token := range strings.Fields(label) {
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			return v
		}
	}
	return 1 << 31
}

// BuildYearColorIndex resolves one color per distinct Launch label: the
// first record in input order carrying the label supplies its Color, nil
// included. Output order follows distinctValues.
func BuildYearColorIndex(records []FacilityRecord, distinctValues []string) []YearColorEntry {
	index := make([]YearColorEntry, 0, len(distinctValues))
	for _, v := range distinctValues {
		entry := YearColorEntry{Year: v}
		for _, rec := range records {
			if rec.Launch != nil && *rec.Launch == v {
				entry.Color = rec.Color
				break
			}
		}
		index = append(index, entry)
	}
	return index
}

// ColorForLaunch looks up the cohort color for a Launch label. Missing
// labels and colorless cohorts both return nil.
func ColorForLaunch(index []YearColorEntry, launch string) *string {
	for _, entry := range index {
		if entry.Year == launch {
			return entry.Color
		}
	}
	return nil
}

// BuildFillPalette produces the fill scheme consumed by the mapping
// library: the default gray plus one self-keyed entry per cohort color.
// Keying fills by the color value itself lets GeoDatum.FillKey carry the
// color directly.
func BuildFillPalette(index []YearColorEntry) map[string]string {
	fills := map[string]string{DefaultFillKey: defaultFillColor}
	for _, entry := range index {
		if entry.Color != nil {
			fills[*entry.Color] = *entry.Color
		}
	}
	return fills
}

// BuildGeoColorMap joins records against the selected geo code table and the
// year/color index, emitting one entry per record whose geography and cohort
// color both resolve. Records failing either join are dropped silently —
// their shapes keep the default fill.
func BuildGeoColorMap(records []FacilityRecord, keyField GeoKeyField, index []YearColorEntry) map[string]GeoDatum {
	data := make(map[string]GeoDatum)
	for _, rec := range records {
		code, ok := resolveGeoCode(rec, keyField)
		if !ok {
			continue
		}
		if rec.Launch == nil {
			continue
		}
		color := ColorForLaunch(index, *rec.Launch)
		if color == nil {
			continue
		}

		datum := GeoDatum{
			FillKey:     *color,
			SelectionID: rec.SelectionID,
		}
		if rec.DocumentLink != nil {
			datum.DocumentLink = *rec.DocumentLink
		}
		data[code] = datum
	}
	return data
}

func resolveGeoCode(rec FacilityRecord, keyField GeoKeyField) (string, bool) {
	switch keyField {
	case KeyState:
		if rec.State == nil {
			return "", false
		}
		return LookupStateCode(*rec.State)
	default:
		if rec.Country == nil {
			return "", false
		}
		return LookupCountryISO3(*rec.Country)
	}
}

// TransposeLegendLabel rewrites a two-token quarter-year label for the world
// legend: "Q1 2024" → "2024 Q1". Anything other than exactly two tokens
// around a single space passes through unchanged. Regional legends must not
// apply this.
func TransposeLegendLabel(label string) string {
	tokens := strings.Split(label, " ")
	if len(tokens) != 2 {
		return label
	}
	return tokens[1] + " " + tokens[0]
}
