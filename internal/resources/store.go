package resources

import "context"

// Store persists resources. Lookups of a missing id return ErrNotFound.
type Store interface {
	List(ctx context.Context) ([]Resource, error)
	ListPremium(ctx context.Context) ([]Resource, error)
	ListByCategory(ctx context.Context, category string) ([]Resource, error)
	ListByType(ctx context.Context, resourceType Type) ([]Resource, error)
	ListByTypeAndCategory(ctx context.Context, resourceType Type, category string) ([]Resource, error)
	Get(ctx context.Context, id int64) (Resource, error)
	Create(ctx context.Context, in CreateInput) (Resource, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Resource, error)
	Delete(ctx context.Context, id int64) error
}
