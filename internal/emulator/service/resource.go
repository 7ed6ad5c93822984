package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store"
	"github.com/aussiebroadwan/auth0mgmt/pkg/idx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/slogx"
)

// ResourceService stores the opaque JSON documents behind the generic
// /api/v2/{collection} endpoints.
type ResourceService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

var collectionPattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,63}$`)

// ValidCollection reports whether name can be used as a collection.
func ValidCollection(name string) bool {
	return collectionPattern.MatchString(name)
}

// List is one page of a collection plus the collection's size.
type List struct {
	Items []domain.Resource
	Page  domain.Page
	Total int
}

// Create stores body as a new document. The id is always generated; a
// client supplied id is overwritten.
func (s *ResourceService) Create(ctx context.Context, collection string, body map[string]any) (domain.Resource, error) {
	if !ValidCollection(collection) {
		return domain.Resource{}, fmt.Errorf("%w: collection %q", ErrInvalidInput, collection)
	}

	prefix, sep := domain.IDPrefix(collection)
	id := prefix + sep + strings.ToLower(idx.New().String())

	doc := make(map[string]any, len(body)+3)
	for k, v := range body {
		doc[k] = v
	}
	now := s.now()
	doc[domain.IDKey(collection)] = id
	doc["created_at"] = now.Format(time.RFC3339Nano)
	doc["updated_at"] = now.Format(time.RFC3339Nano)

	res := domain.Resource{
		Collection: collection,
		ID:         id,
		Body:       doc,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Resources().CreateResource(ctx, res); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Resource{}, ErrResourceConflict
		}
		return domain.Resource{}, err
	}

	slogx.FromContext(ctx).Debug("resource created", "collection", collection, "id", id)
	return res, nil
}

// Get returns one document.
func (s *ResourceService) Get(ctx context.Context, collection, id string) (domain.Resource, error) {
	res, err := s.Store.Resources().GetResource(ctx, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Resource{}, ErrResourceNotFound
	}
	return res, err
}

// List returns a page of a collection. PerPage is clamped to
// [1, domain.MaxPerPage] and defaults to domain.DefaultPerPage.
func (s *ResourceService) List(ctx context.Context, collection string, page domain.Page) (List, error) {
	if page.Page < 0 {
		return List{}, fmt.Errorf("%w: page must not be negative", ErrInvalidInput)
	}
	switch {
	case page.PerPage <= 0:
		page.PerPage = domain.DefaultPerPage
	case page.PerPage > domain.MaxPerPage:
		page.PerPage = domain.MaxPerPage
	}

	var out List
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		items, err := tx.Resources().ListResources(ctx, collection, page)
		if err != nil {
			return err
		}
		total, err := tx.Resources().CountResources(ctx, collection)
		if err != nil {
			return err
		}
		out = List{Items: items, Page: page, Total: total}
		return nil
	})
	return out, err
}

// Patch merges the top-level keys of patch into the stored document. A null
// value removes the key. The id and created_at keys cannot be changed.
func (s *ResourceService) Patch(ctx context.Context, collection, id string, patch map[string]any) (domain.Resource, error) {
	var out domain.Resource
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		res, err := tx.Resources().GetResource(ctx, collection, id)
		if err != nil {
			return err
		}

		idKey := domain.IDKey(collection)
		for k, v := range patch {
			if k == idKey || k == "created_at" || k == "updated_at" {
				continue
			}
			if v == nil {
				delete(res.Body, k)
				continue
			}
			res.Body[k] = v
		}

		res.UpdatedAt = s.now()
		res.Body["updated_at"] = res.UpdatedAt.Format(time.RFC3339Nano)
		if err := tx.Resources().UpdateResource(ctx, res); err != nil {
			return err
		}
		out = res
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Resource{}, ErrResourceNotFound
	}
	return out, err
}

// Delete removes one document.
func (s *ResourceService) Delete(ctx context.Context, collection, id string) error {
	err := s.Store.Resources().DeleteResource(ctx, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrResourceNotFound
	}
	return err
}

func (s *ResourceService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
