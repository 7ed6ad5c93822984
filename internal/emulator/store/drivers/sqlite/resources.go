package sqlite

import (
	"context"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store/drivers/sqlite/gen"
)

type resourcesRepo struct {
	q *gen.Queries
}

func (r *resourcesRepo) GetResource(ctx context.Context, collection, id string) (domain.Resource, error) {
	row, err := r.q.GetResource(ctx, gen.GetResourceParams{Collection: collection, ID: id})
	if err != nil {
		return domain.Resource{}, mapNotFound(err)
	}
	return mapResource(row)
}

func (r *resourcesRepo) ListResources(ctx context.Context, collection string, page domain.Page) ([]domain.Resource, error) {
	rows, err := r.q.ListResources(ctx, gen.ListResourcesParams{
		Collection: collection,
		Limit:      int64(page.PerPage),
		Offset:     int64(page.Offset()),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Resource, 0, len(rows))
	for _, row := range rows {
		res, err := mapResource(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *resourcesRepo) CountResources(ctx context.Context, collection string) (int, error) {
	n, err := r.q.CountResources(ctx, collection)
	return int(n), err
}

func (r *resourcesRepo) CreateResource(ctx context.Context, res domain.Resource) error {
	body, err := encodeBody(res.Body)
	if err != nil {
		return err
	}
	err = r.q.CreateResource(ctx, gen.CreateResourceParams{
		Collection: res.Collection,
		ID:         res.ID,
		Body:       body,
		CreatedAt:  res.CreatedAt,
		UpdatedAt:  res.UpdatedAt,
	})
	return mapConstraint(err)
}

func (r *resourcesRepo) UpdateResource(ctx context.Context, res domain.Resource) error {
	body, err := encodeBody(res.Body)
	if err != nil {
		return err
	}
	return affected(r.q.UpdateResource(ctx, gen.UpdateResourceParams{
		Body:       body,
		UpdatedAt:  res.UpdatedAt,
		Collection: res.Collection,
		ID:         res.ID,
	}))
}

func (r *resourcesRepo) DeleteResource(ctx context.Context, collection, id string) error {
	return affected(r.q.DeleteResource(ctx, gen.DeleteResourceParams{Collection: collection, ID: id}))
}
