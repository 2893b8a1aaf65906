package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/industrialpartner/storefront-backend/internal/catalog"
	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
	"github.com/industrialpartner/storefront-backend/pkg/session"
)

// The remote record sometimes omits these fields; the cart still needs a
// display value.
const missingFieldSentinel = "N/A"

type productLookup interface {
	ItemDetail(ctx context.Context, itemID string) (catalog.Record, error)
}

// Service exposes the session cart operations.
type Service interface {
	Add(ctx context.Context, sessionID, itemID string) (session.Data, error)
	Remove(ctx context.Context, sessionID, itemID string) (session.Data, error)
	Get(ctx context.Context, sessionID string) (session.Data, error)
	Count(ctx context.Context, sessionID string) (int, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store       session.Store
	products    productLookup
	surfaceMiss bool
}

// Params configure the cart service.
type Params struct {
	Store    session.Store
	Products productLookup
	// SurfaceLookupMiss makes a failed product lookup during Add visible to
	// the caller instead of leaving the cart silently unchanged.
	SurfaceLookupMiss bool
}

// NewService builds a cart service backed by the provided session store.
func NewService(params Params) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{
		store:       params.Store,
		products:    params.Products,
		surfaceMiss: params.SurfaceLookupMiss,
	}, nil
}

// Add looks the item up and inserts it at quantity 1, or increments the
// existing line. A failed lookup leaves the cart untouched; whether the
// caller sees the failure is a deployment choice.
func (s *service) Add(ctx context.Context, sessionID, itemID string) (session.Data, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return session.Data{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return session.Data{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}

	record, lookupErr := s.products.ItemDetail(ctx, itemID)
	if lookupErr != nil {
		if s.surfaceMiss {
			return data, lookupErr
		}
		return data, nil
	}

	if line, ok := data.Cart[itemID]; ok {
		line.Quantity++
		data.Cart[itemID] = line
	} else {
		data.Cart[itemID] = session.Line{
			PartNumber:  fieldOrSentinel(record, "PartNumber"),
			Description: fieldOrSentinel(record, "Description"),
			Quantity:    1,
		}
	}

	if err := s.store.Put(ctx, sessionID, data); err != nil {
		return session.Data{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving session")
	}
	return data, nil
}

// Remove deletes the line if present. Removing an absent item is a no-op.
func (s *service) Remove(ctx context.Context, sessionID, itemID string) (session.Data, error) {
	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return session.Data{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}

	if _, ok := data.Cart[itemID]; !ok {
		return data, nil
	}
	delete(data.Cart, itemID)

	if err := s.store.Put(ctx, sessionID, data); err != nil {
		return session.Data{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving session")
	}
	return data, nil
}

// Get returns the current session state without mutating it.
func (s *service) Get(ctx context.Context, sessionID string) (session.Data, error) {
	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return session.Data{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}
	return data, nil
}

// Count sums quantities across all cart lines; 0 for an empty cart.
func (s *service) Count(ctx context.Context, sessionID string) (int, error) {
	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}
	return data.CartCount(), nil
}

// Clear empties the cart while preserving the rest of the session state.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	data, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}
	data.Cart = map[string]session.Line{}
	if err := s.store.Put(ctx, sessionID, data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving session")
	}
	return nil
}

func fieldOrSentinel(record catalog.Record, key string) string {
	if value := record.Field(key); value != "" {
		return value
	}
	return missingFieldSentinel
}
