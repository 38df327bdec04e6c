package domain

// RegionUSA is the special region token. It is never used as a row filter:
// US subdivision lives at the State level, so the USA view consumes every
// record and joins on state codes.
const RegionUSA = "USA"

// PartitionByRegion returns the subsequence of records whose Region equals
// the requested region exactly (case-sensitive). Requesting RegionUSA is the
// identity: all records pass through unfiltered.
func PartitionByRegion(records []FacilityRecord, region string) []FacilityRecord {
	if region == RegionUSA {
		return records
	}

	var subset []FacilityRecord
	for _, rec := range records {
		if rec.Region != nil && *rec.Region == region {
			subset = append(subset, rec)
		}
	}
	return subset
}

// ResolveCurrentRegion picks the region the regional view should show.
// Regional-map mode with a default of RegionUSA is an unconditional
// override. Otherwise a single distinct Region value in the data wins; zero
// or several distinct values fall back to the configured default, which
// callers must set sensibly.
func ResolveCurrentRegion(records []FacilityRecord, defaultRegion string, regionalMapEnabled bool) string {
	if regionalMapEnabled && defaultRegion == RegionUSA {
		return RegionUSA
	}

	var only string
	count := 0
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Region == nil {
			continue
		}
		if _, ok := seen[*rec.Region]; ok {
			continue
		}
		seen[*rec.Region] = struct{}{}
		only = *rec.Region
		count++
	}

	if count == 1 {
		return only
	}
	return defaultRegion
}
