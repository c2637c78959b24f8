// Package catalog exposes read-only product browsing: the list and
// detail reads a client needs to find a variant id before it can touch
// a cart.
package catalog

import (
	"context"

	productrepo "storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]productrepo.Detail, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*productrepo.Detail, error) {
	return s.repo.GetByID(ctx, id)
}
