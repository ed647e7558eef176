package value

import "github.com/emirpasic/gods/maps/linkedhashmap"

// Array is a fixed-length sequence of integers. Its length never changes.
type Array struct {
	elems []int32
}

// NewArray copies elems into a new array.
func NewArray(elems []int32) *Array {
	a := &Array{elems: make([]int32, len(elems))}
	copy(a.elems, elems)
	return a
}

func (a *Array) Len() int { return len(a.elems) }

// At returns the element at i and whether i is in range.
func (a *Array) At(i int) (int32, bool) {
	if i < 0 || i >= len(a.elems) {
		return 0, false
	}
	return a.elems[i], true
}

// Values returns a copy of the elements.
func (a *Array) Values() []int32 {
	out := make([]int32, len(a.elems))
	copy(out, a.elems)
	return out
}

// Field is one named integer member of a struct.
type Field struct {
	Name  string
	Value int32
}

// Struct maps field names to integers and remembers declaration order.
// The field set is fixed once NewStruct returns.
type Struct struct {
	fields *linkedhashmap.Map
}

// NewStruct builds a struct from fields. A repeated name keeps its first
// position and its last value.
func NewStruct(fields []Field) *Struct {
	m := linkedhashmap.New()
	for _, f := range fields {
		m.Put(f.Name, f.Value)
	}
	return &Struct{fields: m}
}

func (s *Struct) Len() int { return s.fields.Size() }

// Get returns the value of the named field.
func (s *Struct) Get(name string) (int32, bool) {
	v, ok := s.fields.Get(name)
	if !ok {
		return 0, false
	}
	return v.(int32), true
}

// Fields returns the members in declaration order.
func (s *Struct) Fields() []Field {
	out := make([]Field, 0, s.fields.Size())
	it := s.fields.Iterator()
	for it.Next() {
		out = append(out, Field{Name: it.Key().(string), Value: it.Value().(int32)})
	}
	return out
}
