package datasvc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// tableRepository implements the generic repository operations over one
// PostgREST table. filters translates the typed filter into query filters.
type tableRepository[T any, F any] struct {
	client  *Client
	table   string
	filters func(F) []Filter
}

func (r *tableRepository[T, F]) ByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.first(ctx, Query{Filters: []Filter{Eq("id", id.String())}, Limit: 1})
}

func (r *tableRepository[T, F]) first(ctx context.Context, q Query) (*T, error) {
	var rows []*T
	if err := r.client.Select(ctx, r.table, q, &rows); err != nil {
		// a value the column type rejects cannot match any row
		if IsInvalidInput(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *tableRepository[T, F]) ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error) {
	var rows []*T
	q := Query{Filters: r.filters(filter), OrderBy: orderBy, Limit: limit, Offset: offset}
	if err := r.client.Select(ctx, r.table, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tableRepository[T, F]) Save(ctx context.Context, entity *T) error {
	var stored []T
	if err := r.client.Insert(ctx, r.table, entity, &stored); err != nil {
		return fmt.Errorf("failed to save %s: %w", r.table, err)
	}
	if len(stored) > 0 {
		*entity = stored[0]
	}
	return nil
}

func (r *tableRepository[T, F]) SaveBatch(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	if err := r.client.Insert(ctx, r.table, entities, nil); err != nil {
		return fmt.Errorf("failed to save %s batch: %w", r.table, err)
	}
	return nil
}

func (r *tableRepository[T, F]) Count(ctx context.Context, filter F) (int64, error) {
	return r.client.Count(ctx, r.table, Query{Filters: r.filters(filter)})
}

func (r *tableRepository[T, F]) Exists(ctx context.Context, filter F) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
