package spine

import (
	"sort"
	"strconv"
	"strings"
)

// filterKey canonicalizes a relationship filter (label -> objects-or-
// wildcard) into a string usable as a memo map key. spec.md §9 describes
// the memo key as "an ordered label -> sorted Object-id list mapping;
// anything encoded distinctly". The teacher's executor.TupleKey instead
// hashes tuple values directly to avoid allocation, which pays off at
// billions of rows; a RelationshipClass filter is at most a handful of
// labels, so a canonical string built once per find_rows call is simpler
// to reason about and just as correct, and is what this engine uses.
func filterKey(labels []string, filters map[string][]*Object, wildcards map[string]bool) string {
	var b strings.Builder
	for _, label := range labels {
		if _, ok := filters[label]; !ok {
			if !wildcards[label] {
				continue
			}
		}
		b.WriteString(label)
		b.WriteByte('=')
		if wildcards[label] {
			b.WriteString("*")
			b.WriteByte(';')
			continue
		}
		ids := make([]uint64, 0, len(filters[label]))
		for _, o := range filters[label] {
			ids = append(ids, o.id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for i, id := range ids {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatUint(id, 10))
		}
		b.WriteByte(';')
	}
	return b.String()
}
