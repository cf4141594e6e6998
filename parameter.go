package spine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/arvihall/spine/value"
)

// errNoUniqueParameterValue marks a wildcard resolution that matched no
// stored parameter value at all, as distinct from AmbiguousError's
// "matched more than one" (spec.md §4.4, §7: both fall through to
// "nothing", but only the latter is the Ambiguous error kind).
var errNoUniqueParameterValue = errors.New("no stored parameter value to resolve wildcard against")

// classSource lets Parameter treat an ObjectClass and a
// RelationshipClass uniformly: both own dimension labels, a set of
// concrete entities, and a way to resolve a partial keyword binding
// down to one entity (spec.md §4.4).
type classSource interface {
	dimensionLabels() []string
	entities() []interface{}
	effectiveValue(entity interface{}, name string) value.ParameterValue
	// resolveKey resolves dims to the one entity this class's class
	// member carries a stored value for under name, when dims leaves
	// one or more of this class's dimensions as a wildcard. err is
	// *AmbiguousError when more than one entity matches, non-nil but
	// unexported when none does.
	resolveKey(name string, dims map[string]interface{}) (entity interface{}, err error)
}

type ocSource struct{ oc *ObjectClass }

func (s ocSource) dimensionLabels() []string { return []string{s.oc.name} }

func (s ocSource) entities() []interface{} {
	out := make([]interface{}, len(s.oc.objects))
	for i, o := range s.oc.objects {
		out[i] = o
	}
	return out
}

func (s ocSource) effectiveValue(entity interface{}, name string) value.ParameterValue {
	return s.oc.effectiveValue(entity.(*Object), name)
}

func (s ocSource) resolveKey(name string, dims map[string]interface{}) (interface{}, error) {
	val, has := dims[s.oc.name]
	if has {
		if obj, ok := val.(*Object); ok {
			return obj, nil
		}
		// explicit wildcard (Anything) falls through to the uniqueness
		// scan below, same as an absent key.
	}
	var match *Object
	count := 0
	for _, entry := range s.oc.parameterValues {
		if _, ok := entry.values[name]; !ok {
			continue
		}
		match = entry.object
		count++
	}
	switch {
	case count == 1:
		return match, nil
	case count > 1:
		return nil, &AmbiguousError{Parameter: name}
	default:
		return nil, errNoUniqueParameterValue
	}
}

type rcSource struct{ rc *RelationshipClass }

func (s rcSource) dimensionLabels() []string { return uniqueLabels(s.rc.objectClassNames) }

func (s rcSource) entities() []interface{} {
	out := make([]interface{}, len(s.rc.relationships))
	for i, r := range s.rc.relationships {
		out[i] = r
	}
	return out
}

func (s rcSource) effectiveValue(entity interface{}, name string) value.ParameterValue {
	return s.rc.effectiveValue(entity.(map[string]*Object), name)
}

func (s rcSource) resolveKey(name string, dims map[string]interface{}) (interface{}, error) {
	labels := uniqueLabels(s.rc.objectClassNames)
	specified := make(map[string]*Object, len(labels))
	wildcard := false
	for _, l := range labels {
		val, has := dims[l]
		if !has {
			wildcard = true
			continue
		}
		obj, ok := val.(*Object)
		if !ok {
			wildcard = true
			continue
		}
		specified[l] = obj
	}
	if !wildcard {
		row := make(map[string]*Object, len(labels))
		for _, l := range labels {
			row[l] = specified[l]
		}
		return row, nil
	}

	var match map[string]*Object
	count := 0
	for _, entry := range s.rc.parameterValues {
		if _, ok := entry.values[name]; !ok {
			continue
		}
		ok := true
		for l, o := range specified {
			if entry.row[l] == nil || entry.row[l].id != o.id {
				ok = false
				break
			}
		}
		if ok {
			count++
			match = entry.row
		}
	}
	switch {
	case count == 1:
		return match, nil
	case count > 1:
		return nil, &AmbiguousError{Parameter: name}
	default:
		return nil, errNoUniqueParameterValue
	}
}

func entityMatchesDims(labels []string, entity interface{}, filterDims map[string]interface{}) bool {
	switch x := entity.(type) {
	case *Object:
		want, ok := filterDims[labels[0]]
		if !ok {
			return true
		}
		wantObj, ok2 := want.(*Object)
		return ok2 && wantObj.id == x.id
	case map[string]*Object:
		for _, l := range labels {
			want, ok := filterDims[l]
			if !ok {
				continue
			}
			wantObj, ok2 := want.(*Object)
			if !ok2 || x[l] == nil || x[l].id != wantObj.id {
				return false
			}
		}
		return true
	}
	return true
}

// Parameter is a named attribute definable on one or more classes
// (spec.md §3). Resolution picks the class of greatest dimensionality
// whose dimension labels are all present as keys in the query kwargs.
type Parameter struct {
	name    string
	classes []classSource
}

// NewParameter constructs an empty, named Parameter.
func NewParameter(name string) *Parameter { return &Parameter{name: name} }

// Name returns the parameter's name.
func (p *Parameter) Name() string { return p.name }

// AddObjectClass registers oc as one of this parameter's classes.
func (p *Parameter) AddObjectClass(oc *ObjectClass) {
	p.classes = append(p.classes, ocSource{oc})
}

// AddRelationshipClass registers rc as one of this parameter's classes.
func (p *Parameter) AddRelationshipClass(rc *RelationshipClass) {
	p.classes = append(p.classes, rcSource{rc})
}

func (p *Parameter) classesByDimensionality() []classSource {
	cs := append([]classSource(nil), p.classes...)
	sort.SliceStable(cs, func(i, j int) bool {
		return len(cs[i].dimensionLabels()) > len(cs[j].dimensionLabels())
	})
	return cs
}

// CallArgs bundles a parameter invocation's dimension bindings (label
// -> *Object, or Anything for a wildcard component; a class is only
// considered when every one of its labels is present in Dims), the
// value-level keyword arguments forwarded to Evaluate, and the
// strict/default error policy (spec.md §4.4, §7).
type CallArgs struct {
	Dims    map[string]interface{}
	Value   value.Args
	Strict  bool
	Default interface{}
}

// Call implements spec.md §4.4's parameter invocation algorithm.
func (p *Parameter) Call(args CallArgs) (interface{}, error) {
	for _, cs := range p.classesByDimensionality() {
		labels := cs.dimensionLabels()
		allPresent := true
		for _, l := range labels {
			if _, ok := args.Dims[l]; !ok {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}

		entity, err := cs.resolveKey(p.name, args.Dims)
		if err != nil {
			// Ambiguous wildcard match (*AmbiguousError) or no stored
			// entity consistent with the specified components: spec.md
			// §7 treats both as silent, non-fatal "nothing", not a
			// fallback to a less specific class.
			return value.Nothing.Evaluate(args.Value)
		}
		pv := cs.effectiveValue(entity, p.name)
		return pv.Evaluate(args.Value)
	}

	if args.Strict {
		return nil, &NotFoundError{Parameter: p.name, Args: describeDims(args.Dims)}
	}
	return args.Default, nil
}

// Indices implements spec.md §4.4's indices(p; kwargs...): every entity
// across every class of p whose resolved value (under no keyword
// arguments) is not nothing, optionally narrowed by filterDims.
func (p *Parameter) Indices(filterDims map[string]interface{}) []interface{} {
	var out []interface{}
	for _, cs := range p.classes {
		labels := cs.dimensionLabels()
		for _, e := range cs.entities() {
			if filterDims != nil && !entityMatchesDims(labels, e, filterDims) {
				continue
			}
			pv := cs.effectiveValue(e, p.name)
			v, err := pv.Evaluate(value.Args{})
			if err != nil || v == nil {
				continue
			}
			out = append(out, e)
		}
	}
	return out
}

// IndicesAsTuples is Indices, but every entity is normalised to a
// label->Object tuple, including single-dimension ObjectClass entities
// (spec.md §6's `indices_as_tuples`).
func (p *Parameter) IndicesAsTuples(filterDims map[string]interface{}) []map[string]*Object {
	var out []map[string]*Object
	for _, cs := range p.classes {
		labels := cs.dimensionLabels()
		for _, e := range cs.entities() {
			if filterDims != nil && !entityMatchesDims(labels, e, filterDims) {
				continue
			}
			pv := cs.effectiveValue(e, p.name)
			v, err := pv.Evaluate(value.Args{})
			if err != nil || v == nil {
				continue
			}
			switch x := e.(type) {
			case *Object:
				out = append(out, map[string]*Object{labels[0]: x})
			case map[string]*Object:
				out = append(out, x)
			}
		}
	}
	return out
}

// MaximumParameterValue implements spec.md §4.4's
// maximum_parameter_value: the greatest numeric leaf across every
// entity of every class of p, recursing into containers and skipping
// NaN.
func MaximumParameterValue(p *Parameter) (float64, bool) {
	var best float64
	found := false
	for _, cs := range p.classes {
		for _, e := range cs.entities() {
			pv := cs.effectiveValue(e, p.name)
			if w, ok := value.Max(pv); ok && (!found || w > best) {
				best, found = w, true
			}
		}
	}
	return best, found
}

func describeDims(dims map[string]interface{}) string {
	parts := make([]string, 0, len(dims))
	for k, v := range dims {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
