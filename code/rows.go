package code

import "sort"

// Rows groups Pixel-Codes by row label, as found under the "rows" key of a
// pixel JSON file
type Rows map[string][]string

// Labels returns the row labels in RowLabels order followed by any other
// labels sorted lexically
func (r Rows) Labels() []string {
	labels := make([]string, 0, len(r))
	seen := make(map[string]struct{}, len(r))
	for _, l := range RowLabels {
		if _, ok := r[string(l)]; ok {
			labels = append(labels, string(l))
			seen[string(l)] = struct{}{}
		}
	}

	var rest []string
	for l := range r {
		if _, ok := seen[l]; !ok {
			rest = append(rest, l)
		}
	}
	sort.Strings(rest)

	return append(labels, rest...)
}

// Flatten concatenates every row in label order
func (r Rows) Flatten() []string {
	var codes []string
	for _, l := range r.Labels() {
		codes = append(codes, r[l]...)
	}
	return codes
}
