package resource

import (
	"context"
	"database/sql"
	"math"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Criteria mutates the select query; it is the store-native filter language.
// A malformed criteria surfaces as a store error, not a pagination one.
type Criteria func(*bun.SelectQuery) *bun.SelectQuery

// Handlers supplies the record factory the generic repository needs.
type Handlers[T Resource] struct {
	NewRecord func() T
}

// Repository executes identity lookups and bounded, ordered, counted queries
// for one resource type.
type Repository[T Resource] struct {
	db             bun.IDB
	handlers       Handlers[T]
	resultsPerPage int
}

// NewRepository builds a repository. resultsPerPage is the page size used
// when the caller does not bound the query itself.
func NewRepository[T Resource](db bun.IDB, handlers Handlers[T], resultsPerPage int) *Repository[T] {
	if resultsPerPage <= 0 {
		resultsPerPage = 50
	}
	return &Repository[T]{
		db:             db,
		handlers:       handlers,
		resultsPerPage: resultsPerPage,
	}
}

// FindOneByID resolves a single resource. Absence is a record-not-found
// error, not a failure.
func (r *Repository[T]) FindOneByID(ctx context.Context, id uuid.UUID) (T, error) {
	record := r.handlers.NewRecord()

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		var zero T
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return zero, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return zero, err
	}

	return record, nil
}

// FindByPaginated counts the rows matching criteria, clamps the requested
// page into range, and returns that page together with the pagination
// numbers. Requesting a page past the end silently answers the last page.
func (r *Repository[T]) FindByPaginated(ctx context.Context, criteria Criteria, data PaginationData) (*PaginatedResources, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = r.resultsPerPage
	}

	countQuery := r.db.NewSelect().Model(r.handlers.NewRecord())
	if criteria != nil {
		countQuery = criteria(countQuery)
	}

	total, err := countQuery.Count(ctx)
	if err != nil {
		return nil, err
	}

	page, nbPages, offset := clampPage(total, data.Offset, limit)

	records := make([]T, 0, limit)
	query := r.db.NewSelect().Model(&records)
	if criteria != nil {
		query = criteria(query)
	}
	if data.Order != "" {
		query = query.OrderExpr(data.Order)
	}

	if err := query.Offset(offset).Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}

	resources := make([]Resource, len(records))
	for i, record := range records {
		resources[i] = record
	}

	return &PaginatedResources{
		Resources:        resources,
		Page:             page,
		NbPages:          nbPages,
		NbResults:        total,
		NbResultsPerPage: limit,
	}, nil
}

// clampPage turns a raw offset/limit request into an in-range page. An empty
// collection reads "page 1 of 1, zero results" rather than "page 0 of 0".
func clampPage(total, offset, limit int) (page, nbPages, clampedOffset int) {
	nbPages = int(math.Ceil(float64(total) / float64(limit)))
	if nbPages < 1 {
		nbPages = 1
	}

	page = offset/limit + 1
	if page < 1 {
		page = 1
	}

	clampedOffset = (page - 1) * limit
	if last := (nbPages - 1) * limit; clampedOffset > last {
		clampedOffset = last
		page = nbPages
	}

	return page, nbPages, clampedOffset
}
