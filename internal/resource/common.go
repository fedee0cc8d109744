package resource

import "time"

// Common provides functionality common to all resources.
type Common struct {
	ID
	Parent Resource

	createdAt time.Time
}

func New(kind Kind, parent Resource) Common {
	return Common{
		ID:        NewID(kind),
		Parent:    parent,
		createdAt: time.Now(),
	}
}

func (r Common) CreatedAt() time.Time {
	return r.createdAt
}

func (r Common) GetParent() Resource {
	return r.Parent
}

func (r Common) HasAncestor(id ID) bool {
	// Every entity is considered an ancestor of the nil ID (equivalent to the
	// ID of the "global" entity).
	if id == GlobalID {
		return true
	}
	if r.Parent == nil {
		// Parent has no parents, so go no further
		return false
	}
	if r.Parent.GetID() == id {
		return true
	}
	// Check parents of parent
	return r.Parent.HasAncestor(id)
}
