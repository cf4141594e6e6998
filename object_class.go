package spine

import "github.com/arvihall/spine/value"

type objectParamEntry struct {
	object *Object
	values map[string]value.ParameterValue
}

// ObjectClass is a named collection of objects and the parameter
// values attached to them (spec.md §3).
type ObjectClass struct {
	name              string
	objects           []*Object
	objectsByName     map[string]*Object
	objectsByID       map[uint64]*Object
	parameterValues   map[uint64]*objectParamEntry
	parameterDefaults map[string]value.ParameterValue
	envs              map[string]bool
}

// NewObjectClass constructs an empty, named ObjectClass.
func NewObjectClass(name string) *ObjectClass {
	return &ObjectClass{
		name:              name,
		objectsByName:     make(map[string]*Object),
		objectsByID:       make(map[uint64]*Object),
		parameterValues:   make(map[uint64]*objectParamEntry),
		parameterDefaults: make(map[string]value.ParameterValue),
		envs:              make(map[string]bool),
	}
}

// Name returns the class's name.
func (oc *ObjectClass) Name() string { return oc.name }

// AddObject appends o to the class, ignoring it if its id is already
// present (append-only per spec.md §3's lifecycle note).
func (oc *ObjectClass) AddObject(o *Object) {
	if _, ok := oc.objectsByID[o.id]; ok {
		return
	}
	oc.objects = append(oc.objects, o)
	oc.objectsByName[o.name] = o
	oc.objectsByID[o.id] = o
}

// AddObjects appends each object in order.
func (oc *ObjectClass) AddObjects(os []*Object) {
	for _, o := range os {
		oc.AddObject(o)
	}
}

// AddParameterValues attaches name->value entries to o. When merge is
// true, entries are merged key-by-key into any existing values for o;
// otherwise the whole set for o is replaced.
func (oc *ObjectClass) AddParameterValues(o *Object, values map[string]value.ParameterValue, merge bool) {
	entry, ok := oc.parameterValues[o.id]
	if !ok || !merge {
		entry = &objectParamEntry{object: o, values: make(map[string]value.ParameterValue, len(values))}
		oc.parameterValues[o.id] = entry
	}
	for k, v := range values {
		entry.values[k] = v
	}
}

// AddParameterDefaults sets name->value class-wide defaults. When merge
// is true existing defaults are preserved except for overwritten keys.
func (oc *ObjectClass) AddParameterDefaults(values map[string]value.ParameterValue, merge bool) {
	if !merge {
		oc.parameterDefaults = make(map[string]value.ParameterValue, len(values))
	}
	for k, v := range values {
		oc.parameterDefaults[k] = v
	}
}

// Objects returns every object in the class, in insertion order.
func (oc *ObjectClass) Objects() []*Object { return oc.objects }

// ByName returns the unique object with the given name, or nil if
// there is none (spec.md §4.3: "oc(:name) ... returns the unique
// object with that name or nothing").
func (oc *ObjectClass) ByName(name string) *Object {
	return oc.objectsByName[name]
}

// effectiveValue resolves the ParameterValue in effect for o under
// name: an explicit per-object value if present, else the class-wide
// default, else the shared Nothing value (spec.md §4.3).
func (oc *ObjectClass) effectiveValue(o *Object, name string) value.ParameterValue {
	if entry, ok := oc.parameterValues[o.id]; ok {
		if pv, ok := entry.values[name]; ok {
			return pv
		}
	}
	if pv, ok := oc.parameterDefaults[name]; ok {
		return pv
	}
	return value.Nothing
}

// Filter implements spec.md §4.3's `oc()` with keyword filters: objects
// for which, for every filter (param, want), the effective value of
// param called with no keyword arguments equals want.
func (oc *ObjectClass) Filter(filters map[string]interface{}) ([]*Object, error) {
	var out []*Object
	for _, o := range oc.objects {
		matched := true
		for param, want := range filters {
			pv := oc.effectiveValue(o, param)
			got, err := pv.Evaluate(value.Args{})
			if err != nil {
				return nil, err
			}
			if !valuesEqual(got, want) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, o)
		}
	}
	return out, nil
}
