package core

import (
	"strings"

	"github.com/google/uuid"
)

// BlankPrefix marks an anonymous resource identity.
const BlankPrefix = "_:"

// Resource is the identity of a mapping object: a URI, or a blank node
// for objects without an externally assigned name.
// Resources are compared by value and are used as registry keys.
type Resource string

// NewBlankResource synthesizes a fresh anonymous resource.
func NewBlankResource() Resource {
	return Resource(BlankPrefix + uuid.New().String())
}

// IsBlank reports whether r is an anonymous resource.
func (r Resource) IsBlank() bool {
	return strings.HasPrefix(string(r), BlankPrefix)
}

// String returns the resource in display form: URIs in angle brackets,
// blank nodes as-is.
func (r Resource) String() string {
	if r == "" || r.IsBlank() {
		return string(r)
	}
	return "<" + string(r) + ">"
}
