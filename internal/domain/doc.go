// Package domain models facility launch data for choropleth map rendering.
//
// # Data Source
//
// Facility tables originate in the hosting analytics application, which
// publishes a snapshot of its current data view to the Kafka source topic on
// every update cycle. A snapshot carries the ordered column list (each column
// declaring zero or more semantic roles) and the ordered rows of raw cells.
//
// # Column Roles
//
// Columns are resolved by role, never by position. The role vocabulary:
//
//	Company, Region, State, Country, DocumentLink, Launch, Color,
//	Highlights, HeaderImage, FooterImage
//
// The first column claiming a role wins; later claims of the same role are
// ignored. A role no column claims leaves the corresponding field null in
// every record. Missing or malformed columns degrade to null fields rather
// than failing the decode — partial data renders as a partial map.
//
// # Launch Labels
//
// The "Launch" column holds a year-like cohort label:
//
//	"2024"     → plain launch year
//	"Q1 2024"  → quarter-year form, two tokens separated by one space
//
// Every record sharing a Launch label belongs to one cohort and is painted in
// one shared color. Exactly one color is associated with each distinct label:
// the first record in table order carrying that label supplies it, even when
// later rows disagree. World-map legends redisplay the quarter-year form with
// the tokens swapped ("Q1 2024" → "2024 Q1"); regional legends leave labels
// untouched. The asymmetry is deliberate and consumers depend on it.
//
// # Geographic Joins
//
// Country names resolve against a fixed country → ISO3 table and US state
// names against a fixed state → two-letter code table, both case-insensitive
// on the name side. A record whose name matches neither table is silently
// dropped from the colored output; the mapping library paints the shape with
// the default fill and no click target resolves for it.
//
// # Regions
//
// The coarse Region buckets are Europe, Asia, Lat-Am, NA, AfME, and USA.
// "USA" is never used as a row filter — US subdivision is carried at the
// State level, so the USA view passes all records through and joins on state
// codes instead of countries.
//
// # Selection Identifiers
//
// Each row gets an opaque selection identifier exactly once, in row order,
// correlating map shapes with host-side selection and context-menu state.
// The production issuer derives IDs as deterministic SHA-256 hashes of
// table|row, so replaying a snapshot yields identical identifiers. See
// [HashSelectionIssuer].
package domain
