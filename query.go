package spine

import "reflect"

// valuesEqual compares a parameter's evaluated result against a filter
// operand. *Object compares by id rather than pointer identity so that
// callers can build a fresh lookup and still match objects held in a
// class's own storage.
func valuesEqual(got, want interface{}) bool {
	if wo, ok := want.(*Object); ok {
		go_, ok2 := got.(*Object)
		return ok2 && go_ != nil && wo != nil && go_.id == wo.id
	}
	return reflect.DeepEqual(got, want)
}

func uniqueLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func intersectSorted(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
