package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumenlabs/lumen/pkg/pagination"
)

// System defines the public contract for product catalog operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Product], error)

	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	Recommend(ctx context.Context, condition string, limit int) ([]Product, error)
}
