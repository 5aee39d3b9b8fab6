package pagelang

// DiffResult represents the difference between two versions of a page.
type DiffResult struct {
	// Added contains segments that are new (not in the previous version).
	Added []Segment

	// Removed contains segments that were removed (not in the new version).
	Removed []Segment

	// Unchanged contains segments that exist in both versions.
	Unchanged []Segment

	// Modified pairs segments whose text changed while their position or
	// context suggests the same element.
	Modified []ModifiedSegment
}

// ModifiedSegment represents a segment whose text changed.
type ModifiedSegment struct {
	Old Segment
	New Segment
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the segments that must be sent to a provider:
// new segments and the new side of modified ones.
func (d *DiffResult) NeedsTranslation() []Segment {
	result := make([]Segment, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffSegments compares two segment lists by text hash. Each distinct text
// is reported once, in document order.
func DiffSegments(oldSegs, newSegs []Segment) *DiffResult {
	result := &DiffResult{}

	oldByHash := make(map[string]bool)
	newByHash := make(map[string]bool)
	for _, seg := range oldSegs {
		oldByHash[seg.Hash] = true
	}
	for _, seg := range newSegs {
		newByHash[seg.Hash] = true
	}

	seen := make(map[string]bool)
	for _, seg := range oldSegs {
		if seen[seg.Hash] {
			continue
		}
		seen[seg.Hash] = true
		if newByHash[seg.Hash] {
			result.Unchanged = append(result.Unchanged, seg)
		} else {
			result.Removed = append(result.Removed, seg)
		}
	}

	seen = make(map[string]bool)
	for _, seg := range newSegs {
		if seen[seg.Hash] {
			continue
		}
		seen[seg.Hash] = true
		if !oldByHash[seg.Hash] {
			result.Added = append(result.Added, seg)
		}
	}

	return result
}

// DiffSegmentsWithContext is DiffSegments that also pairs removed and added
// segments sharing an ID (same position) or a context into Modified.
func DiffSegmentsWithContext(oldSegs, newSegs []Segment) *DiffResult {
	result := DiffSegments(oldSegs, newSegs)

	if len(result.Added) == 0 || len(result.Removed) == 0 {
		return result
	}

	matched := make(map[int]bool)
	removedMatched := make(map[int]bool)

	for ri, removed := range result.Removed {
		for ai, added := range result.Added {
			if matched[ai] {
				continue
			}

			sameSpot := removed.ID == added.ID
			sameContext := removed.Context != "" && removed.Context == added.Context
			if sameSpot || sameContext {
				result.Modified = append(result.Modified, ModifiedSegment{Old: removed, New: added})
				matched[ai] = true
				removedMatched[ri] = true
				break
			}
		}
	}

	added := make([]Segment, 0)
	for i, seg := range result.Added {
		if !matched[i] {
			added = append(added, seg)
		}
	}
	result.Added = added

	removed := make([]Segment, 0)
	for i, seg := range result.Removed {
		if !removedMatched[i] {
			removed = append(removed, seg)
		}
	}
	result.Removed = removed

	return result
}
