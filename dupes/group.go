package dupes

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// GroupRecords partitions records by digest and returns every group with
// more than one member. Groups are ordered by digest and members by path, so
// the result does not depend on the order of records.
func GroupRecords(records []FileRecord) []Group {
	byDigest := lo.GroupBy(records, func(r FileRecord) string {
		return r.Digest
	})

	groups := make([]Group, 0, len(byDigest))
	for digest, members := range byDigest {
		if len(members) < 2 {
			continue
		}
		slices.SortFunc(members, compareByPath)
		groups = append(groups, Group{Digest: digest, Records: members})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return strings.Compare(a.Digest, b.Digest)
	})
	return groups
}

// FindDuplicates returns the records whose digest occurs more than once.
// Either every record sharing a digest is returned or none is. The result is
// sorted by digest, then path.
func FindDuplicates(records []FileRecord) []FileRecord {
	return lo.FlatMap(GroupRecords(records), func(g Group, _ int) []FileRecord {
		return g.Records
	})
}

// SortByDigest orders records so that members of a group are contiguous.
func SortByDigest(records []FileRecord) {
	slices.SortStableFunc(records, func(a, b FileRecord) int {
		if c := strings.Compare(a.Digest, b.Digest); c != 0 {
			return c
		}
		return compareByPath(a, b)
	})
}

func compareByPath(a, b FileRecord) int {
	return strings.Compare(a.Path, b.Path)
}
