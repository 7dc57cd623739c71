package services

import (
	"context"

	"shopfront/internal/domain"
	"shopfront/internal/events"
)

// ToggleWishlist saves or unsaves a product and reports the new membership.
// A second toggle of the same (store, session, product) while one is still
// running fails with ErrToggleInFlight.
func (s *CommerceService) ToggleWishlist(ctx context.Context, storeID, sid, productID string) (bool, Snapshot, error) {
	key := storeID + "|" + sid + "|" + productID
	if _, busy := s.toggles.LoadOrStore(key, struct{}{}); busy {
		return false, Snapshot{}, ErrToggleInFlight
	}
	defer s.toggles.Delete(key)

	wlID, err := s.Wishlists.Ensure(storeID, sid)
	if err != nil {
		return false, Snapshot{}, err
	}
	has, err := s.Wishlists.Has(wlID, productID)
	if err != nil {
		return false, Snapshot{}, err
	}
	if has {
		err = s.Wishlists.Remove(wlID, productID)
	} else {
		var p domain.Product
		if p, err = s.storeProduct(storeID, productID); err != nil {
			return false, Snapshot{}, err
		}
		if !p.Active {
			return false, Snapshot{}, ErrProductUnavailable
		}
		err = s.Wishlists.Add(wlID, productID)
	}
	if err != nil {
		return false, Snapshot{}, err
	}

	s.Invalidate(ctx, storeID, sid)
	publish(ctx, s.Events, events.WishlistToggled, storeID, map[string]any{"product_id": productID, "saved": !has})
	snap, err := s.Snapshot(ctx, storeID, sid)
	return !has, snap, err
}

func (s *CommerceService) IsInWishlist(ctx context.Context, storeID, sid, productID string) (bool, error) {
	snap, err := s.Snapshot(ctx, storeID, sid)
	if err != nil {
		return false, err
	}
	return snap.InWishlist(productID), nil
}

// Wishlist lists the saved products with their current names and prices.
func (s *CommerceService) Wishlist(_ context.Context, storeID, sid string) ([]domain.WishlistItem, error) {
	return s.Wishlists.Items(storeID, sid)
}
