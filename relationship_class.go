package spine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/arvihall/spine/value"
)

type rowParamEntry struct {
	row    map[string]*Object
	values map[string]value.ParameterValue
}

// RelationshipClass is a named collection of n-ary relationships
// between objects and the parameter values attached to them (spec.md
// §3).
type RelationshipClass struct {
	name                   string
	objectClassNames       []string
	intactObjectClassNames []string
	relationships          []map[string]*Object
	parameterValues        map[string]*rowParamEntry
	parameterDefaults      map[string]value.ParameterValue

	// rowMap[label][objID] lists, in ascending order, every row index
	// whose label-th component is the object with that id.
	rowMap map[string]map[uint64][]int
	memo   map[string][]int
}

// NewRelationshipClass constructs an empty RelationshipClass over the
// given ordered dimension labels.
func NewRelationshipClass(name string, labels []string) *RelationshipClass {
	intact := make([]string, len(labels))
	copy(intact, labels)
	rc := &RelationshipClass{
		name:                   name,
		objectClassNames:       append([]string(nil), labels...),
		intactObjectClassNames: intact,
		parameterValues:        make(map[string]*rowParamEntry),
		parameterDefaults:      make(map[string]value.ParameterValue),
		rowMap:                 make(map[string]map[uint64][]int),
		memo:                   make(map[string][]int),
	}
	for _, l := range uniqueLabels(labels) {
		rc.rowMap[l] = make(map[uint64][]int)
	}
	return rc
}

// Name returns the class's name.
func (rc *RelationshipClass) Name() string { return rc.name }

// Labels returns the class's current ordered dimension labels.
func (rc *RelationshipClass) Labels() []string { return rc.objectClassNames }

// rowKey canonicalizes a relationship row into the key used to index
// parameterValues: the object ids in dimension order, joined. Distinct
// from filterKey, which canonicalizes a *query filter* (sets of
// candidate objects per label) rather than one concrete row.
func (rc *RelationshipClass) rowKey(row map[string]*Object) string {
	var b strings.Builder
	for i, label := range rc.objectClassNames {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(row[label].id, 10))
	}
	return b.String()
}

// AddRelationships appends rows whose label set matches
// objectClassNames exactly, indexing each into rowMap and invalidating
// the memo (spec.md §3 invariant: "every relationship row's label set
// equals object_class_names").
func (rc *RelationshipClass) AddRelationships(rows []map[string]*Object) error {
	labels := uniqueLabels(rc.objectClassNames)
	for _, row := range rows {
		if len(row) != len(labels) {
			return &InvariantError{Msg: "relationship row label set does not match object_class_names"}
		}
		for _, label := range labels {
			if _, ok := row[label]; !ok {
				return &InvariantError{Msg: "relationship row missing label " + label}
			}
		}
		idx := len(rc.relationships)
		rc.relationships = append(rc.relationships, row)
		for _, label := range labels {
			o := row[label]
			rc.rowMap[label][o.id] = append(rc.rowMap[label][o.id], idx)
		}
	}
	if len(rows) > 0 {
		rc.memo = make(map[string][]int)
	}
	return nil
}

// AddParameterValues attaches name->value entries to the relationship
// row identified by the tuple of objects in row. merge behaves as in
// ObjectClass.AddParameterValues.
func (rc *RelationshipClass) AddParameterValues(row map[string]*Object, values map[string]value.ParameterValue, merge bool) {
	key := rc.rowKey(row)
	entry, ok := rc.parameterValues[key]
	if !ok || !merge {
		entry = &rowParamEntry{row: row, values: make(map[string]value.ParameterValue, len(values))}
		rc.parameterValues[key] = entry
	}
	for k, v := range values {
		entry.values[k] = v
	}
}

// AddParameterDefaults sets class-wide name->value defaults.
func (rc *RelationshipClass) AddParameterDefaults(values map[string]value.ParameterValue, merge bool) {
	if !merge {
		rc.parameterDefaults = make(map[string]value.ParameterValue, len(values))
	}
	for k, v := range values {
		rc.parameterDefaults[k] = v
	}
}

func (rc *RelationshipClass) effectiveValue(row map[string]*Object, name string) value.ParameterValue {
	if entry, ok := rc.parameterValues[rc.rowKey(row)]; ok {
		if pv, ok := entry.values[name]; ok {
			return pv
		}
	}
	if pv, ok := rc.parameterDefaults[name]; ok {
		return pv
	}
	return value.Nothing
}

// Rows returns every relationship row in the class, in insertion order.
func (rc *RelationshipClass) Rows() []map[string]*Object { return rc.relationships }

func normalizeDimFilter(v interface{}) (objs []*Object, wildcard bool) {
	switch x := v.(type) {
	case Wildcard:
		return nil, true
	case *Object:
		return []*Object{x}, false
	case []*Object:
		return x, false
	}
	return nil, false
}

// FindRows implements spec.md §4.3's find_rows: it resolves a label ->
// objects-or-anything filter map to the sorted vector of matching row
// indices, memoizing by a canonical filter key.
func (rc *RelationshipClass) FindRows(filters map[string]interface{}) ([]int, error) {
	filterObjs := make(map[string][]*Object, len(filters))
	wildcards := make(map[string]bool, len(filters))
	for label, v := range filters {
		objs, wildcard := normalizeDimFilter(v)
		if wildcard {
			wildcards[label] = true
		} else {
			filterObjs[label] = objs
		}
	}

	key := filterKey(uniqueLabels(rc.objectClassNames), filterObjs, wildcards)
	if cached, ok := rc.memo[key]; ok {
		return cached, nil
	}

	var result []int
	any := false
	for _, label := range uniqueLabels(rc.objectClassNames) {
		if wildcards[label] {
			continue
		}
		objs, has := filterObjs[label]
		if !has {
			continue
		}
		m, ok := rc.rowMap[label]
		if !ok {
			rc.memo[key] = nil
			return nil, nil
		}
		seen := make(map[int]bool)
		var union []int
		for _, o := range objs {
			for _, idx := range m[o.id] {
				if !seen[idx] {
					seen[idx] = true
					union = append(union, idx)
				}
			}
		}
		sort.Ints(union)
		if !any {
			result = union
			any = true
		} else {
			result = intersectSorted(result, union)
		}
	}
	if !any {
		result = allIndices(len(rc.relationships))
	}
	rc.memo[key] = result
	return result, nil
}

// remainingLabels returns the unique dimension labels not present in
// filters, preserving first-occurrence order.
func remainingLabels(labels []string, filters map[string]interface{}) []string {
	var out []string
	for _, l := range uniqueLabels(labels) {
		if _, ok := filters[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// Query implements spec.md §4.3's `rc()`: with no filters, the raw row
// vector; with filters, the result projected onto the remaining
// dimensions, deduplicated when compact is requested. An empty match
// returns dflt if non-nil, else an empty result of the appropriate
// shape (spec.md §7's recovery policy).
func (rc *RelationshipClass) Query(filters map[string]interface{}, compact bool, dflt interface{}) (interface{}, error) {
	for label := range filters {
		if !containsLabel(rc.objectClassNames, label) {
			return nil, &BadFilterError{Class: rc.name, Key: label}
		}
	}
	if len(filters) == 0 {
		return rc.relationships, nil
	}

	rows, err := rc.FindRows(filters)
	if err != nil {
		return nil, err
	}

	R := remainingLabels(rc.objectClassNames, filters)

	if len(rows) == 0 {
		if dflt != nil {
			return dflt, nil
		}
		return emptyQueryResult(compact, R), nil
	}

	if !compact {
		out := make([]map[string]*Object, len(rows))
		for i, r := range rows {
			out[i] = rc.relationships[r]
		}
		return out, nil
	}

	if len(R) == 0 {
		// Every dimension was pinned: the query degenerates to "does
		// this exact tuple exist", which it does.
		return true, nil
	}

	if len(R) == 1 {
		label := R[0]
		var out []*Object
		seen := make(map[uint64]bool)
		for _, r := range rows {
			o := rc.relationships[r][label]
			if !seen[o.id] {
				seen[o.id] = true
				out = append(out, o)
			}
		}
		return out, nil
	}

	var out []map[string]*Object
	seen := make(map[string]bool)
	for _, r := range rows {
		row := rc.relationships[r]
		tuple := make(map[string]*Object, len(R))
		var keyParts []string
		for _, label := range R {
			o := row[label]
			tuple[label] = o
			keyParts = append(keyParts, label+"="+strconv.FormatUint(o.id, 10))
		}
		k := strings.Join(keyParts, ";")
		if !seen[k] {
			seen[k] = true
			out = append(out, tuple)
		}
	}
	return out, nil
}

func emptyQueryResult(compact bool, r []string) interface{} {
	if !compact {
		return []map[string]*Object{}
	}
	switch len(r) {
	case 0:
		return false
	case 1:
		return []*Object{}
	default:
		return []map[string]*Object{}
	}
}

// AddDimension implements spec.md §4.3's add_dimension!: append label to
// both object_class_names and intact_object_class_names, attach obj to
// every existing row, rekey parameter_values from the old tuple to
// (old tuple..., obj), initialise row_map[label] to point every row at
// obj, and invalidate the memo.
func (rc *RelationshipClass) AddDimension(label string, obj *Object) error {
	if containsLabel(rc.objectClassNames, label) {
		return &InvariantError{Msg: "dimension label already present: " + label}
	}

	newEntries := make(map[string]*rowParamEntry, len(rc.parameterValues))
	for _, entry := range rc.parameterValues {
		newRow := make(map[string]*Object, len(entry.row)+1)
		for k, v := range entry.row {
			newRow[k] = v
		}
		newRow[label] = obj
		newEntry := &rowParamEntry{row: newRow, values: entry.values}
		newKey := rc.rowKeyFor(newRow, append(rc.objectClassNames, label))
		if _, dup := newEntries[newKey]; dup {
			return &InvariantError{Msg: "add_dimension! produced duplicate parameter_values key"}
		}
		newEntries[newKey] = newEntry
	}

	for _, row := range rc.relationships {
		row[label] = obj
	}

	rc.objectClassNames = append(rc.objectClassNames, label)
	rc.intactObjectClassNames = append(rc.intactObjectClassNames, label)
	rc.parameterValues = newEntries

	idx := make([]int, len(rc.relationships))
	for i := range idx {
		idx[i] = i
	}
	rc.rowMap[label] = map[uint64][]int{obj.id: idx}

	rc.memo = make(map[string][]int)
	return nil
}

func (rc *RelationshipClass) rowKeyFor(row map[string]*Object, labels []string) string {
	var b strings.Builder
	for i, label := range uniqueLabels(labels) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(row[label].id, 10))
	}
	return b.String()
}
