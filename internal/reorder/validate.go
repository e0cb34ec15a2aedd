package reorder

// vetted is the outcome of validating a parsed response against the actual
// input size: either a full permutation of all n stops, or a discard.
type vetted struct {
	// Order is a 0-based permutation covering every input index.
	Order []int

	// Rejections counts the in-range rejected indices that were honored
	// (moved behind the ordered stops).
	Rejections int
}

// vet converts raw 1-based advisory indices into a vetted permutation.
// Out-of-range and rejected indices are dropped from the order, duplicates
// keep their first occurrence, and every omitted input index is appended in
// input order so no place is ever silently dropped. Returns false when fewer
// than two ordered indices survive; callers must then discard the advisory
// output entirely.
func vet(parsed Parsed, n int) (vetted, bool) {
	if n < 2 {
		return vetted{}, false
	}

	rejected := make(map[int]struct{}, len(parsed.Reject))
	for _, raw := range parsed.Reject {
		idx := raw - 1
		if idx >= 0 && idx < n {
			rejected[idx] = struct{}{}
		}
	}

	seen := make(map[int]struct{}, n)
	order := make([]int, 0, n)
	for _, raw := range parsed.Order {
		idx := raw - 1
		if idx < 0 || idx >= n {
			continue
		}
		if _, isRejected := rejected[idx]; isRejected {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		order = append(order, idx)
	}

	if len(order) < 2 {
		return vetted{}, false
	}

	// Append everything the advisory omitted, rejected stops included.
	for idx := 0; idx < n; idx++ {
		if _, ok := seen[idx]; !ok {
			order = append(order, idx)
		}
	}

	return vetted{Order: order, Rejections: len(rejected)}, true
}
