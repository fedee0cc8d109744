package resource

// GlobalResource is the abstract top-level entity from which all other
// resources are ultimately spawned.
var GlobalResource Resource = Common{}

// Resource is a unique entity spawned from another entity.
type Resource interface {
	// GetID retrieves the unique identifier for the resource.
	GetID() ID
	// GetKind retrieves the kind of resource.
	GetKind() Kind
	// GetParent retrieves the resource's parent, the resource from which the
	// resource was spawned.
	GetParent() Resource
	// HasAncestor determines whether the resource has an ancestor with the
	// given ID.
	HasAncestor(ID) bool
	// String is a human-readable identifier for the resource. Not necessarily
	// unique.
	String() string
}
