package frames

// Dedup drops repeated timestamps, keeping the first occurrence of each value.
// Comparison is exact: 12.5 and 12.500001 are both kept. NaN never equals
// itself and is therefore never merged either.
func Dedup(ts []float64) []float64 {
	out := make([]float64, 0, len(ts))
	seen := make(map[float64]struct{}, len(ts))
	for _, t := range ts {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SplitTitle dedups [title, inline...] and treats the first unique value as the title.
func SplitTitle(title float64, inline []float64) (float64, []float64) {
	all := make([]float64, 0, 1+len(inline))
	all = append(all, title)
	all = append(all, inline...)
	uniq := Dedup(all)
	return uniq[0], uniq[1:]
}
