// Package resource provides a generic, paginated read layer over bun models.
// Any entity exposing a uuid identity can be served through it; out-of-range
// page requests clamp to the last valid page instead of erroring.
package resource

import "github.com/google/uuid"

// Resource is the capability every pageable entity implements.
type Resource interface {
	ResourceID() uuid.UUID
}

// PaginationData describes the requested window: an order expression plus the
// raw offset/limit pair. The repository derives the page number from them.
type PaginationData struct {
	Order  string
	Offset int
	Limit  int
}

// PaginatedResources carries one page of results plus the numbers the
// collection envelope needs.
type PaginatedResources struct {
	Resources        []Resource
	Page             int
	NbPages          int
	NbResults        int
	NbResultsPerPage int
}
