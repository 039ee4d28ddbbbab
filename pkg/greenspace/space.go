// Package greenspace defines the green space record and its persisted form.
package greenspace

import "greenstore/pkg/types"

// Space is a single green space record. ID is assigned by the allocator and
// immutable once assigned.
type Space struct {
	ID          types.ID `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
}

// Payload carries the caller-supplied fields for add and update operations.
type Payload struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Valid reports whether the payload may create a record: name, location and
// description must all be non-empty.
func (p Payload) Valid() bool {
	return p.Name != "" && p.Location != "" && p.Description != ""
}
