package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	variantrepo "storefront/internal/repository/variant"

	"github.com/google/uuid"
)

// MemoryRepo backs local development and tests. It resolves display
// data through the variant repository so reads look like the postgres
// join.
type MemoryRepo struct {
	mu       sync.Mutex
	variants variantrepo.Repository
	carts    map[string]*domain.Cart
	lines    map[string]map[string]*domain.CartLine // cartID -> lineID -> line
}

func NewMemory(variants variantrepo.Repository) *MemoryRepo {
	return &MemoryRepo{
		variants: variants,
		carts:    make(map[string]*domain.Cart),
		lines:    make(map[string]map[string]*domain.CartLine),
	}
}

func (r *MemoryRepo) findByOwner(owner domain.Owner) *domain.Cart {
	for _, c := range r.carts {
		if c.Owner == owner {
			return c
		}
	}
	return nil
}

func (r *MemoryRepo) GetOrCreate(_ context.Context, owner domain.Owner) (*domain.Cart, error) {
	if owner.IsNone() {
		return nil, domain.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.findByOwner(owner); c != nil {
		out := *c
		return &out, nil
	}
	now := time.Now().UTC()
	c := &domain.Cart{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.carts[c.ID] = c
	r.lines[c.ID] = make(map[string]*domain.CartLine)
	out := *c
	return &out, nil
}

func (r *MemoryRepo) GetByOwner(_ context.Context, owner domain.Owner) (*domain.Cart, error) {
	if owner.IsNone() {
		return nil, domain.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.findByOwner(owner); c != nil {
		out := *c
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryRepo) ListResolvedLines(ctx context.Context, cartID string) ([]domain.ResolvedCartLine, error) {
	r.mu.Lock()
	lines := make([]domain.CartLine, 0, len(r.lines[cartID]))
	for _, l := range r.lines[cartID] {
		lines = append(lines, *l)
	}
	r.mu.Unlock()

	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })

	resolved := make([]domain.ResolvedCartLine, 0, len(lines))
	for _, l := range lines {
		d, err := r.variants.GetDetail(ctx, l.VariantID)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, domain.ResolvedCartLine{
			ID:             l.ID,
			VariantID:      l.VariantID,
			ProductID:      d.ProductID,
			ProductName:    d.ProductName,
			ProductImage:   d.ProductImage,
			Color:          d.Color,
			Size:           d.Size,
			PriceCents:     d.PriceCents,
			SalePriceCents: d.SalePriceCents,
			Quantity:       l.Quantity,
			InStock:        d.InStock,
		})
	}
	return resolved, nil
}

func (r *MemoryRepo) UpsertLine(_ context.Context, cartID, variantID string, quantity int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cartLines, ok := r.lines[cartID]
	if !ok {
		return "", domain.ErrNotFound
	}
	for _, l := range cartLines {
		if l.VariantID == variantID {
			l.Quantity += quantity
			r.touch(cartID)
			return l.ID, nil
		}
	}
	l := &domain.CartLine{
		ID:        uuid.NewString(),
		CartID:    cartID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	cartLines[l.ID] = l
	r.touch(cartID)
	return l.ID, nil
}

func (r *MemoryRepo) UpdateLineQuantity(_ context.Context, lineID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for cartID, cartLines := range r.lines {
		if l, ok := cartLines[lineID]; ok {
			l.Quantity = quantity
			r.touch(cartID)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MemoryRepo) DeleteLine(_ context.Context, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for cartID, cartLines := range r.lines {
		if _, ok := cartLines[lineID]; ok {
			delete(cartLines, lineID)
			r.touch(cartID)
			return nil
		}
	}
	return nil
}

func (r *MemoryRepo) ClearLines(_ context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lines[cartID]; ok {
		r.lines[cartID] = make(map[string]*domain.CartLine)
		r.touch(cartID)
	}
	return nil
}

func (r *MemoryRepo) MergeInto(_ context.Context, srcCartID, dstCartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	srcLines, ok := r.lines[srcCartID]
	if !ok {
		return domain.ErrNotFound
	}
	dstLines, ok := r.lines[dstCartID]
	if !ok {
		return domain.ErrNotFound
	}

	for _, src := range srcLines {
		merged := false
		for _, dst := range dstLines {
			if dst.VariantID == src.VariantID {
				dst.Quantity += src.Quantity
				merged = true
				break
			}
		}
		if !merged {
			l := &domain.CartLine{
				ID:        uuid.NewString(),
				CartID:    dstCartID,
				VariantID: src.VariantID,
				Quantity:  src.Quantity,
			}
			dstLines[l.ID] = l
		}
	}

	delete(r.lines, srcCartID)
	delete(r.carts, srcCartID)
	r.touch(dstCartID)
	return nil
}

// touch requires r.mu held.
func (r *MemoryRepo) touch(cartID string) {
	if c, ok := r.carts[cartID]; ok {
		c.UpdatedAt = time.Now().UTC()
	}
}
