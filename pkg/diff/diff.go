// Package diff computes the membership difference between two version
// snapshots. A snapshot is the set of (filename, checksum) pairs of a
// version; content comparison is by checksum only.
package diff

// Entry is a single file membership.
type Entry struct {
	Filename string `json:"filename"`
	Checksum string `json:"checksum"`
}

// Modified pairs the two checksums of a file present in both versions with
// different content.
type Modified struct {
	Filename    string `json:"filename"`
	OldChecksum string `json:"old_checksum"`
	NewChecksum string `json:"new_checksum"`
}

type Stats struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// Result lists memberships present only in the second version (Added), only
// in the first (Removed), and in both with differing checksums (Modified).
// Files with identical checksums in both versions are omitted entirely.
type Result struct {
	Added    []Entry    `json:"added_files"`
	Removed  []Entry    `json:"removed_files"`
	Modified []Modified `json:"modified_files"`
	Stats    Stats      `json:"stats"`
}

// Compute diffs two snapshots in O(n+m). Swapping the arguments swaps Added
// and Removed and flips the old/new checksums of every Modified entry.
func Compute(from, to []Entry) Result {
	fromByName := make(map[string]string, len(from))
	for _, e := range from {
		fromByName[e.Filename] = e.Checksum
	}

	result := Result{
		Added:    []Entry{},
		Removed:  []Entry{},
		Modified: []Modified{},
	}

	seen := make(map[string]struct{}, len(to))
	for _, e := range to {
		seen[e.Filename] = struct{}{}

		old, ok := fromByName[e.Filename]
		switch {
		case !ok:
			result.Added = append(result.Added, e)
		case old != e.Checksum:
			result.Modified = append(result.Modified, Modified{
				Filename:    e.Filename,
				OldChecksum: old,
				NewChecksum: e.Checksum,
			})
		}
	}

	for _, e := range from {
		if _, ok := seen[e.Filename]; !ok {
			result.Removed = append(result.Removed, e)
		}
	}

	result.Stats = Stats{
		Added:    len(result.Added),
		Removed:  len(result.Removed),
		Modified: len(result.Modified),
	}

	return result
}
