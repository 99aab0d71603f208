// Package dedup consolidates duplicate résumé records within a batch and filters
// a batch against records that are already stored.
package dedup

// Batch collapses duplicates in records. Each unprocessed record seeds an
// accumulator; every later unprocessed record that isDuplicate of the
// accumulator is merged into it and marked processed. The input is not modified.
func Batch[T any](records []T, isDuplicate func(a, b T) bool, merge func(a, b T) T) []T {
	out := make([]T, 0, len(records))
	processed := make([]bool, len(records))

	for i := range records {
		if processed[i] {
			continue
		}
		processed[i] = true

		acc := records[i]
		for j := i + 1; j < len(records); j++ {
			if processed[j] {
				continue
			}
			if isDuplicate(acc, records[j]) {
				acc = merge(acc, records[j])
				processed[j] = true
			}
		}
		out = append(out, acc)
	}

	return out
}

// FilterNew returns the records of incoming that duplicate none of existing
func FilterNew[T, E any](incoming []T, existing []E, isDuplicate func(T, E) bool) []T {
	out := make([]T, 0, len(incoming))
	for _, rec := range incoming {
		duplicate := false
		for _, e := range existing {
			if isDuplicate(rec, e) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, rec)
		}
	}
	return out
}

// union appends the values of b not already present in a, preserving order.
// Matching is exact. The result never aliases a or b.
func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
