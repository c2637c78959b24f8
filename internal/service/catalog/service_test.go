package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

func seededRepo() *productrepo.MemoryRepo {
	repo := productrepo.NewMemory()
	repo.Put(productrepo.Detail{
		Product: domain.Product{ID: "prod-1", Name: "Alpha", ImageURL: "/a.jpg"},
		Variants: []domain.Variant{
			{ID: "var-a1", ProductID: "prod-1", SKU: "A1", PriceCents: 4500, InStock: 5},
			{ID: "var-a2", ProductID: "prod-1", SKU: "A2", PriceCents: 4700, InStock: 0},
		},
	})
	repo.Put(productrepo.Detail{
		Product: domain.Product{ID: "prod-2", Name: "Beta"},
		Variants: []domain.Variant{
			{ID: "var-b1", ProductID: "prod-2", SKU: "B1", PriceCents: 2500, InStock: 3},
		},
	})
	return repo
}

func TestListReturnsVariants(t *testing.T) {
	svc := New(seededRepo())

	products, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "prod-1" || len(products[0].Variants) != 2 {
		t.Fatalf("unexpected first product %+v", products[0])
	}
	if products[0].Variants[0].ID != "var-a1" {
		t.Fatalf("unexpected variant order %+v", products[0].Variants)
	}
}

func TestGetUnknownProduct(t *testing.T) {
	svc := New(seededRepo())

	if _, err := svc.Get(context.Background(), "no-such"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := svc.Get(context.Background(), "prod-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Beta" || len(got.Variants) != 1 {
		t.Fatalf("unexpected product %+v", got)
	}
}
