// Command validate performs data integrity checks across the mock fixtures:
// the table snapshot JSON and the transformed view JSON. It verifies row
// counts, cohort and legend consistency, geo join coverage, and the identity
// behavior of the USA partition.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -snapshot data/mock/facility_snapshot.json \
//	  -view data/mock/facility_world_view.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "", "path to the table snapshot fixture")
	viewPath := flag.String("view", "", "path to the transformed view fixture")
	flag.Parse()

	if *snapshotPath == "" || *viewPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*snapshotPath, *viewPath); code != 0 {
		os.Exit(code)
	}
}

func run(snapshotPath, viewPath string) int {
	// Set a fixed clock matching genmock for reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.August, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Facility Map Fixture Validation ===")
	fmt.Println()

	var snap domain.TableSnapshot
	if err := loadJSON(snapshotPath, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot fixture: %v\n", err)
		return 1
	}

	var view domain.MapViewModel
	if err := loadJSON(viewPath, &view); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load view fixture: %v\n", err)
		return 1
	}

	records := domain.DecodeSnapshot(snap, domain.HashSelectionIssuer{})

	phases := []*phase{
		checkDecode(snap, records),
		checkCohorts(records, view),
		checkGeoJoins(records, view),
		checkPartitions(records),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

// checkDecode verifies the decoder's structural guarantees against the
// snapshot: one record per row, selection identifiers unique and stable.
func checkDecode(snap domain.TableSnapshot, records []domain.FacilityRecord) *phase {
	p := &phase{name: "decode"}

	if len(records) != len(snap.Rows) {
		p.errorf("decoded %d records from %d rows", len(records), len(snap.Rows))
	}

	seen := make(map[string]int)
	for i, rec := range records {
		if rec.SelectionID == "" {
			p.errorf("row %d has no selection identifier", i)
			continue
		}
		if prev, dup := seen[rec.SelectionID]; dup {
			p.errorf("rows %d and %d share selection identifier %s", prev, i, rec.SelectionID)
		}
		seen[rec.SelectionID] = i
	}

	replay := domain.DecodeSnapshot(snap, domain.HashSelectionIssuer{})
	for i := range records {
		if replay[i].SelectionID != records[i].SelectionID {
			p.errorf("row %d selection identifier not stable across replays", i)
		}
	}

	return p
}

// checkCohorts verifies the view's legend against freshly classified
// records: same cohorts, transposed labels, consistent colors.
func checkCohorts(records []domain.FacilityRecord, view domain.MapViewModel) *phase {
	p := &phase{name: "cohorts"}

	distinct := domain.DistinctLaunchValues(records)
	if len(view.Legend) != len(distinct) {
		p.errorf("view legend has %d entries, expected %d cohorts", len(view.Legend), len(distinct))
		return p
	}

	index := domain.BuildYearColorIndex(records, distinct)
	for i, entry := range index {
		wantLabel := domain.TransposeLegendLabel(entry.Year)
		if view.Legend[i].Label != wantLabel {
			p.errorf("legend[%d] label %q, expected %q", i, view.Legend[i].Label, wantLabel)
		}
		if entry.Color != nil {
			if _, ok := view.Fills[*entry.Color]; !ok {
				p.errorf("cohort %q color %s missing from fill palette", entry.Year, *entry.Color)
			}
		}
	}

	if _, ok := view.Fills[domain.DefaultFillKey]; !ok {
		p.errorf("fill palette is missing %s", domain.DefaultFillKey)
	}

	return p
}

// checkGeoJoins verifies that every view shape traces back to a record that
// passes both joins, and that join drop counts add up.
func checkGeoJoins(records []domain.FacilityRecord, view domain.MapViewModel) *phase {
	p := &phase{name: "geo joins"}

	index := domain.BuildYearColorIndex(records, domain.DistinctLaunchValues(records))
	fresh := domain.BuildGeoColorMap(records, domain.KeyCountry, index)

	if len(fresh) != len(view.Data) {
		p.errorf("rebuilt geo map has %d shapes, fixture has %d", len(fresh), len(view.Data))
	}
	for code, datum := range view.Data {
		rebuilt, ok := fresh[code]
		if !ok {
			p.errorf("fixture shape %s not reproducible from the snapshot", code)
			continue
		}
		if rebuilt.FillKey != datum.FillKey {
			p.errorf("shape %s fill %s, expected %s", code, datum.FillKey, rebuilt.FillKey)
		}
	}

	if got := view.Stats.Records; got != len(records) {
		p.errorf("view stats count %d records, expected %d", got, len(records))
	}

	return p
}

// checkPartitions verifies the partitioner invariants on the decoded data.
func checkPartitions(records []domain.FacilityRecord) *phase {
	p := &phase{name: "partitions"}

	usa := domain.PartitionByRegion(records, domain.RegionUSA)
	if len(usa) != len(records) {
		p.errorf("USA partition returned %d of %d records, expected identity", len(usa), len(records))
	}

	total := 0
	for _, region := range []string{"Europe", "Asia", "Lat-Am", "NA", "AfME"} {
		subset := domain.PartitionByRegion(records, region)
		for _, rec := range subset {
			if rec.Region == nil || *rec.Region != region {
				p.errorf("record leaked into %s partition", region)
			}
		}
		total += len(subset)
	}
	if total > len(records) {
		p.errorf("region partitions overlap: %d partitioned records from %d inputs", total, len(records))
	}

	return p
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
