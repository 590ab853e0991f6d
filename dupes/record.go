package dupes

type (
	// FileRecord is the digest of a single regular file.
	FileRecord struct {
		Path   string `json:"path"`   // path as displayed to the user
		Digest string `json:"digest"` // lowercase hex content digest
		Size   int64  `json:"size"`   // number of bytes hashed
	}

	// Group is a set of two or more records sharing one digest.
	Group struct {
		Digest  string       `json:"digest"`
		Records []FileRecord `json:"records"`
	}
)

// Size returns the size of a single member of the group.
func (g Group) Size() int64 {
	if len(g.Records) == 0 {
		return 0
	}
	return g.Records[0].Size
}

// Reclaimable is the number of bytes freed by keeping only one member.
func (g Group) Reclaimable() int64 {
	if len(g.Records) < 2 {
		return 0
	}
	return g.Size() * int64(len(g.Records)-1)
}

// Paths returns the member paths in group order.
func (g Group) Paths() []string {
	paths := make([]string, len(g.Records))
	for i, r := range g.Records {
		paths[i] = r.Path
	}
	return paths
}
