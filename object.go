package spine

// Object is a named entity with a stable id, optionally a member of
// groups and containing members. Names are unique within an ObjectClass
// but objects are identified by id (spec.md §3). Object is always used
// by pointer so that membership sets and relationship rows can compare
// by identity.
type Object struct {
	name    string
	id      uint64
	members map[uint64]*Object
	groups  map[uint64]*Object
}

// NewObject constructs an object scoped to className (used only to seed
// the stable id; the class itself does not keep a back-reference here).
func NewObject(className, name string) *Object {
	return &Object{
		name: name,
		id:   newObjectID(className, name),
	}
}

// Name returns the object's name.
func (o *Object) Name() string { return o.name }

// ID returns the object's stable 64-bit identifier.
func (o *Object) ID() uint64 { return o.id }

func (o *Object) String() string { return o.name }

// AddMember inserts m into o's member set. No cycle check is performed
// on insert, matching spec.md §3 ("form a DAG (no cycle invariant
// enforced on insert)").
func (o *Object) AddMember(m *Object) {
	if o.members == nil {
		o.members = make(map[uint64]*Object)
	}
	o.members[m.id] = m
	if m.groups == nil {
		m.groups = make(map[uint64]*Object)
	}
	m.groups[o.id] = o
}

// Members returns the object's direct members.
func (o *Object) Members() []*Object {
	out := make([]*Object, 0, len(o.members))
	for _, m := range o.members {
		out = append(out, m)
	}
	return out
}

// Groups returns the groups this object directly belongs to.
func (o *Object) Groups() []*Object {
	out := make([]*Object, 0, len(o.groups))
	for _, g := range o.groups {
		out = append(out, g)
	}
	return out
}

// Wildcard is the "anything" filter operand (spec.md §9): it
// short-circuits set algebra so that intersect(x, anything) == x and
// membership against it is always true.
type Wildcard struct{}

// Anything is the shared wildcard value used as a filter operand.
var Anything = Wildcard{}

// IsAnything reports whether v is the wildcard sentinel.
func IsAnything(v interface{}) bool {
	_, ok := v.(Wildcard)
	return ok
}
