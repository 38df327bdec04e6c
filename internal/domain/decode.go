package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// Role names a semantic column role in the host data view.
type Role string

// The fixed role vocabulary. Columns declaring anything else are ignored.
const (
	RoleCompany      Role = "Company"
	RoleRegion       Role = "Region"
	RoleState        Role = "State"
	RoleCountry      Role = "Country"
	RoleDocumentLink Role = "DocumentLink"
	RoleLaunch       Role = "Launch"
	RoleColor        Role = "Color"
	RoleHighlights   Role = "Highlights"
	RoleHeaderImage  Role = "HeaderImage"
	RoleFooterImage  Role = "FooterImage"
)

var roleVocabulary = []Role{
	RoleCompany, RoleRegion, RoleState, RoleCountry, RoleDocumentLink,
	RoleLaunch, RoleColor, RoleHighlights, RoleHeaderImage, RoleFooterImage,
}

// SelectionIssuer hands out the opaque per-row selection identifier. In the
// hosting application this is a host service call; the production issuer
// below derives deterministic identifiers instead.
type SelectionIssuer interface {
	SelectionID(tableID string, row int) string
}

// HashSelectionIssuer issues deterministic selection identifiers hashed from
// table|row. Replaying a snapshot yields identical identifiers, which keeps
// downstream selection state stable across reprocessing.
type HashSelectionIssuer struct{}

func (HashSelectionIssuer) SelectionID(tableID string, row int) string {
	input := fmt.Sprintf("%s|%d", tableID, row)
	hash := sha256.Sum256([]byte(input))
	return "sel-" + hex.EncodeToString(hash[:8])
}

// ParseSnapshot deserializes a RawSnapshot's value into a TableSnapshot.
func ParseSnapshot(raw RawSnapshot) (TableSnapshot, error) {
	var snap TableSnapshot
	if err := json.Unmarshal(raw.Value, &snap); err != nil {
		return TableSnapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

// roleIndex maps each resolved role to its column index. Absent roles have
// no entry.
type roleIndex map[Role]int

// resolveColumnRoles scans the column list once and records the index of the
// first column claiming each role. A column with no recognized role, or a
// role already claimed, contributes nothing.
func resolveColumnRoles(columns []Column) roleIndex {
	idx := make(roleIndex, len(roleVocabulary))
	for i, col := range columns {
		for _, declared := range col.Roles {
			role := Role(declared)
			if !knownRole(role) {
				continue
			}
			if _, seen := idx[role]; seen {
				continue
			}
			idx[role] = i
		}
	}
	return idx
}

func knownRole(r Role) bool {
	for _, known := range roleVocabulary {
		if r == known {
			return true
		}
	}
	return false
}

// DecodeSnapshot converts a table snapshot into facility records, one per
// input row in row order. Missing roles and null cells become nil fields;
// the decode itself never fails. An absent table (no column metadata)
// produces no records.
func DecodeSnapshot(snap TableSnapshot, issuer SelectionIssuer) []FacilityRecord {
	if len(snap.Columns) == 0 {
		return nil
	}

	roles := resolveColumnRoles(snap.Columns)
	records := make([]FacilityRecord, 0, len(snap.Rows))

	for i, row := range snap.Rows {
		rec := FacilityRecord{
			Company:      cellForRole(row, roles, RoleCompany),
			Region:       cellForRole(row, roles, RoleRegion),
			State:        cellForRole(row, roles, RoleState),
			Country:      cellForRole(row, roles, RoleCountry),
			DocumentLink: cellForRole(row, roles, RoleDocumentLink),
			Launch:       cellForRole(row, roles, RoleLaunch),
			Color:        cellForRole(row, roles, RoleColor),
			Highlights:   cellForRole(row, roles, RoleHighlights),
			HeaderImage:  cellForRole(row, roles, RoleHeaderImage),
			FooterImage:  cellForRole(row, roles, RoleFooterImage),
			SelectionID:  issuer.SelectionID(snap.TableID, i),
		}
		records = append(records, rec)
	}

	return records
}

// cellForRole reads the cell at the role's resolved index, stringified.
// Unset roles, short rows, and null cells all yield nil.
func cellForRole(row []any, roles roleIndex, role Role) *string {
	i, ok := roles[role]
	if !ok || i >= len(row) {
		return nil
	}
	return stringifyCell(row[i])
}

// stringifyCell renders a raw JSON cell as a string. Numbers keep their
// shortest exact representation so "2024" survives the float round-trip.
func stringifyCell(cell any) *string {
	switch v := cell.(type) {
	case nil:
		return nil
	case string:
		return &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	case bool:
		s := strconv.FormatBool(v)
		return &s
	default:
		s := fmt.Sprint(v)
		return &s
	}
}
