package domain

import (
	"strings"
	"time"
)

// Resource is one JSON document of a Management API collection, e.g. a
// user under "users" or a role under "roles". Body always carries the id
// under IDKey(Collection).
type Resource struct {
	Collection string
	ID         string
	Body       map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Page selects a slice of a collection. Page is zero based, like the
// Management API's page parameter.
type Page struct {
	Page    int
	PerPage int
}

const (
	DefaultPerPage = 50
	MaxPerPage     = 100
)

// Offset returns the row offset of the page.
func (p Page) Offset() int { return p.Page * p.PerPage }

// IDKey is the document field holding a resource's id.
func IDKey(collection string) string {
	switch collection {
	case "users":
		return "user_id"
	default:
		return "id"
	}
}

var idPrefixes = map[string]string{
	"organizations":    "org",
	"roles":            "rol",
	"connections":      "con",
	"actions":          "act",
	"resource-servers": "rs",
	"hooks":            "hk",
	"grants":           "cgr",
}

// IDPrefix returns the prefix of generated ids for a collection. Users get
// the "auth0|" provider prefix instead of an underscore form.
func IDPrefix(collection string) (prefix, sep string) {
	if collection == "users" {
		return "auth0", "|"
	}
	if p, ok := idPrefixes[collection]; ok {
		return p, "_"
	}
	p := strings.TrimSuffix(collection, "s")
	if len(p) > 3 {
		p = p[:3]
	}
	return p, "_"
}
