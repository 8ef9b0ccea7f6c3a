package parser

import (
	"fmt"
	"sync"

	"github.com/cmmoran/cdecl/internal/model"
)

// Tag is a struct, union or enum tag binding.
type Tag struct {
	Kind   model.SUEKind
	Name   string
	Struct *model.DeclStructType
	Union  *model.DeclUnionType
	Enum   *model.DeclEnumType
}

// IsComplete reports whether the tagged type has a body.
func (t *Tag) IsComplete() bool {
	switch t.Kind {
	case model.SUEStruct:
		return t.Struct.IsComplete()
	case model.SUEUnion:
		return t.Union.IsComplete()
	case model.SUEEnum:
		return t.Enum.IsComplete()
	}
	return false
}

func newTag(kind model.SUEKind, name string) *Tag {
	t := &Tag{Kind: kind, Name: name}
	switch kind {
	case model.SUEStruct:
		t.Struct = &model.DeclStructType{DeclRecordType: model.DeclRecordType{Name: name}}
	case model.SUEUnion:
		t.Union = &model.DeclUnionType{DeclRecordType: model.DeclRecordType{Name: name}}
	case model.SUEEnum:
		t.Enum = &model.DeclEnumType{Name: name}
	}
	return t
}

// scope holds the names declared in one block. An ordinary identifier
// binds either a typedef or an object, and an object hides an outer
// typedef of the same name.
type scope struct {
	typedefs map[string]*model.Typedef
	objects  map[string]bool
	tags     map[string]*Tag
}

func newScope() *scope {
	return &scope{
		typedefs: make(map[string]*model.Typedef),
		objects:  make(map[string]bool),
		tags:     make(map[string]*Tag),
	}
}

// Resolver answers "is this identifier a type name" during parsing. It is
// a stack of scopes; the bottom scope is file scope. It is safe for
// concurrent use.
type Resolver struct {
	mu     sync.RWMutex
	scopes []*scope
}

// NewResolver returns a Resolver with file scope open. Each name in
// typedefs is registered as an opaque type name.
func NewResolver(typedefs ...string) *Resolver {
	r := &Resolver{scopes: []*scope{newScope()}}
	for _, name := range typedefs {
		r.scopes[0].typedefs[name] = &model.Typedef{Name: name}
	}
	return r
}

// Push opens a nested scope.
func (r *Resolver) Push() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, newScope())
}

// Pop closes the innermost scope. File scope is never popped.
func (r *Resolver) Pop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.scopes) > 1 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

// Depth returns the number of open scopes.
func (r *Resolver) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scopes)
}

// LookupTypedef returns the innermost typedef called name, or nil when the
// name is unbound or hidden by an object.
func (r *Resolver) LookupTypedef(name string) *model.Typedef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.scopes) - 1; i >= 0; i-- {
		s := r.scopes[i]
		if s.objects[name] {
			return nil
		}
		if td, ok := s.typedefs[name]; ok {
			return td
		}
	}
	return nil
}

// IsTypedef reports whether name currently denotes a type.
func (r *Resolver) IsTypedef(name string) bool {
	return r.LookupTypedef(name) != nil
}

// IsTag reports whether name is a struct, union or enum tag in any open
// scope.
func (r *Resolver) IsTag(name string) bool {
	return r.LookupTag(name) != nil
}

// LookupTag returns the innermost tag called name.
func (r *Resolver) LookupTag(name string) *Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if t, ok := r.scopes[i].tags[name]; ok {
			return t
		}
	}
	return nil
}

// DefineTypedef binds td in the innermost scope.
func (r *Resolver) DefineTypedef(td *model.Typedef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.scopes[len(r.scopes)-1]
	delete(s.objects, td.Name)
	s.typedefs[td.Name] = td
}

// DefineObject binds an ordinary identifier in the innermost scope.
func (r *Resolver) DefineObject(name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.scopes[len(r.scopes)-1]
	delete(s.typedefs, name)
	s.objects[name] = true
}

// ReferenceTag returns the visible tag called name, declaring an
// incomplete one in the innermost scope when none is visible.
func (r *Resolver) ReferenceTag(kind model.SUEKind, name string) (*Tag, error) {
	if t := r.LookupTag(name); t != nil {
		if t.Kind != kind {
			return nil, fmt.Errorf("%s %s previously declared as %s: %w", kind, name, t.Kind, ErrTagKind)
		}
		return t, nil
	}
	t, _, err := r.DeclareTag(kind, name)
	return t, err
}

// DeclareTag returns the tag called name in the innermost scope, creating
// it when absent. Anonymous tags are never registered. created reports
// whether a new binding was made.
func (r *Resolver) DeclareTag(kind model.SUEKind, name string) (tag *Tag, created bool, err error) {
	if name == "" {
		return newTag(kind, name), true, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.scopes[len(r.scopes)-1]
	if t, ok := s.tags[name]; ok {
		if t.Kind != kind {
			return nil, false, fmt.Errorf("%s %s previously declared as %s: %w", kind, name, t.Kind, ErrTagKind)
		}
		return t, false, nil
	}
	t := newTag(kind, name)
	s.tags[name] = t
	return t, true, nil
}

// ForgetTag removes name from the innermost scope.
func (r *Resolver) ForgetTag(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scopes[len(r.scopes)-1].tags, name)
}
