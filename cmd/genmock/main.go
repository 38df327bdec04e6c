// Command genmock reads a facility CSV export and generates mock data
// fixtures: the table snapshot JSON the host would publish, and the map view
// model the pipeline produces from it. It uses the actual domain package so
// the transformed fixture matches real pipeline behavior.
//
// The CSV header row names the columns; each column's declared role is its
// header verbatim, matching the role vocabulary (Company, Region, State,
// Country, DocumentLink, Launch, Color, Highlights).
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/mock/facilities.csv \
//	  -snapshot-out data/mock/facility_snapshot.json \
//	  -view-out data/mock/facility_world_view.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/facility-map-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "facility CSV export")
	snapshotOut := flag.String("snapshot-out", "", "output path for the table snapshot fixture")
	viewOut := flag.String("view-out", "", "output path for the world view fixture")
	tableID := flag.String("table-id", "facilities-mock", "table identifier stamped on the snapshot")
	title := flag.String("title", "Facility Map", "map title used in the view fixture")
	flag.Parse()

	if *csvPath == "" || *snapshotOut == "" || *viewOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -snapshot-out, -view-out")
	}

	// Set a fixed clock for reproducible GeneratedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.August, 1, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	snap, err := readCSVSnapshot(*csvPath, *tableID)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *csvPath, err)
	}
	log.Printf("%s: %d rows, %d columns", *csvPath, len(snap.Rows), len(snap.Columns))

	records := domain.DecodeSnapshot(snap, domain.HashSelectionIssuer{})
	view := domain.BuildMapView(records, domain.ViewOptions{Title: *title, ShowHighlights: true})

	if err := writeJSON(*snapshotOut, snap); err != nil {
		return fmt.Errorf("writing snapshot fixture: %w", err)
	}
	log.Printf("wrote snapshot fixture: %s", *snapshotOut)

	if err := writeJSON(*viewOut, view); err != nil {
		return fmt.Errorf("writing view fixture: %w", err)
	}
	log.Printf("wrote view fixture: %s", *viewOut)

	printStats(view)
	return nil
}

// readCSVSnapshot converts a headered CSV into a table snapshot, declaring
// each header as its column's role.
func readCSVSnapshot(path, tableID string) (domain.TableSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return domain.TableSnapshot{}, fmt.Errorf("read: %w", err)
	}
	if len(rows) == 0 {
		return domain.TableSnapshot{}, fmt.Errorf("empty CSV")
	}

	snap := domain.TableSnapshot{TableID: tableID}
	for _, header := range rows[0] {
		snap.Columns = append(snap.Columns, domain.Column{
			Name:  header,
			Roles: []string{header},
		})
	}
	for _, row := range rows[1:] {
		cells := make([]any, len(row))
		for i, cell := range row {
			if cell == "" {
				cells[i] = nil
			} else {
				cells[i] = cell
			}
		}
		snap.Rows = append(snap.Rows, cells)
	}

	return snap, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func printStats(view domain.MapViewModel) {
	log.Printf("view: %d shapes, %d legend entries, %d fills",
		len(view.Data), len(view.Legend), len(view.Fills))
	log.Printf("joins: %d records in scope, %d dropped (geo), %d dropped (color)",
		view.Stats.InScope, view.Stats.DroppedGeo, view.Stats.DroppedColor)
}
