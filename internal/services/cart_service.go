package services

import (
	"context"
	"fmt"

	"shopfront/internal/domain"
	"shopfront/internal/events"
)

// AddToCart puts qty units of a product with the chosen options into the
// session's cart, merging with a line that has the same options. On any
// error the cart is left as it was.
func (s *CommerceService) AddToCart(ctx context.Context, storeID, sid, productID string, qty int, opts domain.Options) (Snapshot, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.storeProduct(storeID, productID)
	if err != nil {
		return Snapshot{}, err
	}
	if !p.Active {
		return Snapshot{}, ErrProductUnavailable
	}
	if opts == nil {
		opts = domain.Options{}
	}
	if err := p.Variants.Validate(opts); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	cartID, err := s.Carts.Ensure(storeID, sid)
	if err != nil {
		return Snapshot{}, err
	}
	// stock covers the product as a whole, whatever options each line has
	have, err := s.Carts.ProductQty(cartID, p.ID)
	if err != nil {
		return Snapshot{}, err
	}
	if have+qty > p.Stock {
		return Snapshot{}, ErrOutOfStock
	}
	if err := s.Carts.Upsert(cartID, p.ID, opts, qty, p.EffectivePrice()); err != nil {
		return Snapshot{}, err
	}

	s.Invalidate(ctx, storeID, sid)
	publish(ctx, s.Events, events.CartItemAdded, storeID, map[string]any{"product_id": p.ID, "qty": qty, "options": opts.Key()})
	return s.Snapshot(ctx, storeID, sid)
}

// UpdateQty sets the quantity of one cart line; qty <= 0 removes it.
func (s *CommerceService) UpdateQty(ctx context.Context, storeID, sid, productID, optionsKey string, qty int) (Snapshot, error) {
	cartID, err := s.Carts.Ensure(storeID, sid)
	if err != nil {
		return Snapshot{}, err
	}
	if qty > 0 {
		p, err := s.storeProduct(storeID, productID)
		if err != nil {
			return Snapshot{}, err
		}
		total, err := s.Carts.ProductQty(cartID, productID)
		if err != nil {
			return Snapshot{}, err
		}
		line, err := s.Carts.LineQty(cartID, productID, optionsKey)
		if err != nil {
			return Snapshot{}, err
		}
		if total-line+qty > p.Stock {
			return Snapshot{}, ErrOutOfStock
		}
	}
	if err := s.Carts.SetQty(cartID, productID, optionsKey, qty); err != nil {
		return Snapshot{}, err
	}
	s.Invalidate(ctx, storeID, sid)
	return s.Snapshot(ctx, storeID, sid)
}
