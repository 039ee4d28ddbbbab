// Package service wires the identifier allocator and the record store behind
// the operations the API exposes.
package service

import (
	"log/slog"
	"strings"

	"greenstore/pkg/dberrors"
	"greenstore/pkg/greenspace"
	"greenstore/pkg/idgen"
	"greenstore/pkg/region"
	"greenstore/pkg/store"
	"greenstore/pkg/types"
)

// Service owns the allocator and the store. One instance is constructed at
// startup and shared by every request handler.
type Service struct {
	ids   *idgen.Allocator
	store *store.Store
}

// Open restores (or creates) the durable regions in dataDir and builds the
// service on top of them.
func Open(dataDir string) (*Service, error) {
	rm, err := region.NewManager(dataDir)
	if err != nil {
		return nil, err
	}

	ids, err := idgen.Open(rm)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(rm)
	if err != nil {
		return nil, err
	}

	return &Service{ids: ids, store: st}, nil
}

func (s *Service) Close() {
	s.store.Close()
	if err := s.ids.Close(); err != nil {
		slog.Warn("failed to close id allocator", "error", err)
	}
}

// AddResult distinguishes a created record from a rejected payload.
type AddResult struct {
	Created bool
	Space   greenspace.Space
	Reason  string
}

// Add validates the payload, allocates a fresh id and stores the record.
// An invalid payload is rejected without consuming an id.
func (s *Service) Add(p greenspace.Payload) (AddResult, error) {
	if !p.Valid() {
		return AddResult{Reason: "name, location and description must all be non-empty"}, nil
	}

	id, err := s.ids.NextID()
	if err != nil {
		return AddResult{}, err
	}

	space := greenspace.Space{
		ID:          id,
		Name:        p.Name,
		Location:    p.Location,
		Description: p.Description,
	}
	if err := s.store.Insert(space); err != nil {
		return AddResult{}, err
	}

	return AddResult{Created: true, Space: space}, nil
}

func (s *Service) Get(id types.ID) (greenspace.Space, error) {
	space, ok := s.store.Get(id)
	if !ok {
		return greenspace.Space{}, dberrors.NotFound("get", id)
	}
	return space, nil
}

// Update replaces all three caller-supplied fields. Copy-modify-write: the
// stored record is never mutated in place.
func (s *Service) Update(id types.ID, p greenspace.Payload) (greenspace.Space, error) {
	space, ok := s.store.Get(id)
	if !ok {
		return greenspace.Space{}, dberrors.NotFound("update", id)
	}

	space.Name = p.Name
	space.Location = p.Location
	space.Description = p.Description
	if err := s.store.Insert(space); err != nil {
		return greenspace.Space{}, err
	}

	return space, nil
}

// UpdateLocation replaces only the location field.
func (s *Service) UpdateLocation(id types.ID, location string) (greenspace.Space, error) {
	space, ok := s.store.Get(id)
	if !ok {
		return greenspace.Space{}, dberrors.NotFound("update location for", id)
	}

	space.Location = location
	if err := s.store.Insert(space); err != nil {
		return greenspace.Space{}, err
	}

	return space, nil
}

// Delete permanently removes the record and returns its last value.
func (s *Service) Delete(id types.ID) (greenspace.Space, error) {
	space, ok := s.store.Remove(id)
	if !ok {
		return greenspace.Space{}, dberrors.NotFound("delete", id)
	}
	return space, nil
}

// ListAll returns every record in ascending id order.
func (s *Service) ListAll() []greenspace.Space {
	return s.filter(func(greenspace.Space) bool { return true })
}

// SearchByName keeps records whose name contains q. Matching is
// case-sensitive; the empty query matches everything.
func (s *Service) SearchByName(q string) []greenspace.Space {
	return s.filter(func(sp greenspace.Space) bool { return strings.Contains(sp.Name, q) })
}

func (s *Service) SearchByLocation(q string) []greenspace.Space {
	return s.filter(func(sp greenspace.Space) bool { return strings.Contains(sp.Location, q) })
}

func (s *Service) SearchByDescription(q string) []greenspace.Space {
	return s.filter(func(sp greenspace.Space) bool { return strings.Contains(sp.Description, q) })
}

func (s *Service) Count() uint64 {
	return s.store.Count()
}

func (s *Service) filter(keep func(greenspace.Space) bool) []greenspace.Space {
	result := make([]greenspace.Space, 0)
	s.store.Ascend(func(_ types.ID, space greenspace.Space) bool {
		if keep(space) {
			result = append(result, space)
		}
		return true
	})
	return result
}
