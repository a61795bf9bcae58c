// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

// Registry is an append-only, ordered list of Descriptors.
//
// Names are not required to be unique: lookups by name always resolve to
// the first Descriptor added with that name.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry creates a Registry holding copies of the given descriptors,
// in the same order.
func NewRegistry(descriptors []Descriptor) *Registry {
	r := &Registry{descriptors: make([]Descriptor, 0, len(descriptors))}
	for _, d := range descriptors {
		r.Add(d)
	}
	return r
}

// Add appends a copy of d.
func (r *Registry) Add(d Descriptor) {
	r.descriptors = append(r.descriptors, d.Clone())
}

// Find returns the first Descriptor whose name matches, and whether it
// has been found.
func (r *Registry) Find(name string) (Descriptor, bool) {
	for i := range r.descriptors {
		if r.descriptors[i].Name == name {
			return r.descriptors[i].Clone(), true
		}
	}
	return Descriptor{}, false
}

// Contains reports whether a Descriptor with the given name exists.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Find(name)
	return ok
}

// First returns the first Descriptor added, and whether the Registry is
// not empty.
func (r *Registry) First() (Descriptor, bool) {
	if len(r.descriptors) == 0 {
		return Descriptor{}, false
	}
	return r.descriptors[0].Clone(), true
}

// Len returns the number of Descriptors.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Names returns the names of all Descriptors in insertion order.
//
// If there are no Descriptors it returns nil, otherwise a new slice of
// strings is allocated and returned.
func (r *Registry) Names() []string {
	if len(r.descriptors) == 0 {
		return nil
	}
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}

// Descriptors returns copies of all Descriptors in insertion order.
func (r *Registry) Descriptors() []Descriptor {
	if len(r.descriptors) == 0 {
		return nil
	}
	out := make([]Descriptor, len(r.descriptors))
	for i, d := range r.descriptors {
		out[i] = d.Clone()
	}
	return out
}
