package value

import (
	"sort"
	"time"
)

// MapKeyKind distinguishes the three key shapes a Map can be indexed
// by (spec.md §3: "Map keys are symbols, timestamps, or reals").
type MapKeyKind int

const (
	MapKeySymbol MapKeyKind = iota
	MapKeyTimestamp
	MapKeyReal
)

// MapKey is one entry in a Map's index. Symbol keys match exactly;
// Timestamp and Real keys use nearest-or-last matching, the same
// asof-style rule search_overlap uses for time series: the greatest
// indexed key not exceeding the query, falling back to the smallest
// indexed key when the query precedes every entry.
type MapKey struct {
	Kind      MapKeyKind
	Symbol    string
	Timestamp time.Time
	Real      float64
}

func SymbolKey(s string) MapKey       { return MapKey{Kind: MapKeySymbol, Symbol: s} }
func TimestampKey(t time.Time) MapKey { return MapKey{Kind: MapKeyTimestamp, Timestamp: t} }
func RealKey(v float64) MapKey        { return MapKey{Kind: MapKeyReal, Real: v} }

func toMapKey(v interface{}) (MapKey, bool) {
	switch x := v.(type) {
	case string:
		return SymbolKey(x), true
	case time.Time:
		return TimestampKey(x), true
	case float64:
		return RealKey(x), true
	case int64:
		return RealKey(float64(x)), true
	case int:
		return RealKey(float64(x)), true
	}
	return MapKey{}, false
}

// MapValue is a nested, heterogeneously-keyed container (spec.md §3's
// Map variant): descending into it with the `inds` keyword recurses
// through successive keys until Inds is exhausted or a key fails to
// resolve, at which point the Map itself is returned undescended
// (spec.md §4.2: "Miss falls back to the no-key behaviour of the map
// itself").
type MapValue struct {
	Indexes []MapKey
	Values  []ParameterValue
}

// NewMap validates that Indexes and Values are the same length and
// that no two entries share a key.
func NewMap(indexes []MapKey, values []ParameterValue) (*MapValue, error) {
	if len(indexes) != len(values) {
		return nil, &InvariantError{Msg: "map index and value vectors differ in length"}
	}
	seen := make(map[MapKey]bool, len(indexes))
	for _, k := range indexes {
		if seen[k] {
			return nil, &InvariantError{Msg: "duplicate map key"}
		}
		seen[k] = true
	}
	return &MapValue{Indexes: indexes, Values: values}, nil
}

func (m *MapValue) lookup(key MapKey) (ParameterValue, bool) {
	switch key.Kind {
	case MapKeySymbol:
		for i, k := range m.Indexes {
			if k.Kind == MapKeySymbol && k.Symbol == key.Symbol {
				return m.Values[i], true
			}
		}
		return nil, false
	case MapKeyTimestamp:
		return m.nearestOrLast(key, func(k MapKey) bool { return k.Kind == MapKeyTimestamp },
			func(k MapKey) float64 { return float64(k.Timestamp.UnixNano()) },
			float64(key.Timestamp.UnixNano()))
	case MapKeyReal:
		return m.nearestOrLast(key, func(k MapKey) bool { return k.Kind == MapKeyReal },
			func(k MapKey) float64 { return k.Real }, key.Real)
	}
	return nil, false
}

func (m *MapValue) nearestOrLast(_ MapKey, kind func(MapKey) bool, order func(MapKey) float64, query float64) (ParameterValue, bool) {
	type cand struct {
		order float64
		idx   int
	}
	var cands []cand
	for i, k := range m.Indexes {
		if kind(k) {
			cands = append(cands, cand{order: order(k), idx: i})
		}
	}
	if len(cands) == 0 {
		return nil, false
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].order < cands[j].order })

	best := -1
	for _, c := range cands {
		if c.order <= query {
			best = c.idx
		} else {
			break
		}
	}
	if best < 0 {
		best = cands[0].idx
	}
	return m.Values[best], true
}

// Evaluate implements spec.md §4.2's Map row: with no `inds` given, a
// Map recurses to itself (there is nothing to key into yet); otherwise
// the first element of Inds is resolved against this level's index and
// evaluation continues with the remaining Inds against the matched
// child, forwarding `i`/`t` unchanged so they apply at whatever leaf
// the descent bottoms out on.
func (m *MapValue) Evaluate(args Args) (interface{}, error) {
	if len(args.Inds) == 0 {
		return m, nil
	}
	key, ok := toMapKey(args.Inds[0])
	if !ok {
		return m, nil
	}
	child, ok := m.lookup(key)
	if !ok {
		return m, nil
	}
	next := args
	next.Inds = args.Inds[1:]
	return child.Evaluate(next)
}
