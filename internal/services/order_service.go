package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	"shopfront/internal/events"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidShipping = errors.New("unknown shipping method")
	ErrOrderNotFound   = errors.New("order not found")
)

// Contact is what the checkout form collects.
type Contact struct {
	Name     string
	Email    string
	Address  string
	Shipping string // shipping method id, optional
}

// ShippingQuote is a shipping method priced for a given cart subtotal.
type ShippingQuote struct {
	Method domain.ShippingMethod
	Cost   decimal.Decimal
}

type OrderService struct {
	Carts     *repos.CartRepo
	Orders    *repos.OrderRepo
	Shipping  *repos.ShippingRepo
	Templates TemplateLookup
	Commerce  *CommerceService
	Mailer    notify.Mailer
	Events    events.Publisher
}

func NewOrderService(carts *repos.CartRepo, orders *repos.OrderRepo, shipping *repos.ShippingRepo, commerce *CommerceService) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, Shipping: shipping, Commerce: commerce, Events: events.Log{}}
}

func quote(m domain.ShippingMethod, subtotal decimal.Decimal) decimal.Decimal {
	if m.MinOrder.Valid && subtotal.GreaterThanOrEqual(m.MinOrder.Decimal) {
		return decimal.Zero
	}
	return m.Price
}

// ShippingOptions prices every active method of the store for subtotal.
func (s *OrderService) ShippingOptions(storeID string, subtotal decimal.Decimal) ([]ShippingQuote, error) {
	methods, err := s.Shipping.Active(storeID)
	if err != nil {
		return nil, err
	}
	out := make([]ShippingQuote, 0, len(methods))
	for _, m := range methods {
		out = append(out, ShippingQuote{Method: m, Cost: quote(m, subtotal)})
	}
	return out, nil
}

func orderNumber() string {
	return "SF-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Checkout turns the session's cart into a pending order. Prices come from
// the cart lines; stock is taken in the same transaction that writes the
// order, so a short product fails the whole checkout with ErrOutOfStock.
func (s *OrderService) Checkout(ctx context.Context, store *domain.Store, sid, userID string, c Contact) (domain.Order, error) {
	items, err := s.Carts.Items(store.ID, sid)
	if err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	subtotal := decimal.Zero
	lines := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal())
		lines = append(lines, domain.OrderItem{
			ProductID: it.ProductID, Name: it.Name, Options: it.Options, Qty: it.Qty, UnitPrice: it.UnitPrice,
		})
	}

	total := subtotal
	if c.Shipping != "" {
		m, err := s.Shipping.Get(store.ID, c.Shipping)
		if errors.Is(err, repos.ErrNotFound) || (err == nil && !m.Active) {
			return domain.Order{}, ErrInvalidShipping
		}
		if err != nil {
			return domain.Order{}, err
		}
		total = total.Add(quote(m, subtotal))
	}

	cartID, err := s.Carts.Ensure(store.ID, sid)
	if err != nil {
		return domain.Order{}, err
	}
	o := domain.Order{
		ID:              uuid.NewString(),
		StoreID:         store.ID,
		SessionID:       sid,
		UserID:          userID,
		Number:          orderNumber(),
		Status:          "pending",
		Total:           total,
		CustomerName:    c.Name,
		CustomerEmail:   c.Email,
		ShippingAddress: c.Address,
		CreatedAt:       repos.Timestamp(time.Now()),
	}
	if err := s.Orders.Place(o, lines, cartID); err != nil {
		if errors.Is(err, repos.ErrInsufficientStock) {
			return domain.Order{}, fmt.Errorf("%w: %v", ErrOutOfStock, err)
		}
		return domain.Order{}, err
	}
	for _, l := range lines {
		o.ItemCount += l.Qty
	}

	if s.Commerce != nil {
		s.Commerce.Invalidate(ctx, store.ID, sid)
	}
	publish(ctx, s.Events, events.OrderPlaced, store.ID, map[string]any{"order_id": o.ID, "number": o.Number, "total": o.Total.StringFixed(2)})
	mailTemplate(ctx, s.Templates, s.Mailer, store.ID, notify.OrderConfirmation, o.CustomerEmail, map[string]any{
		"Store": store, "Order": o, "Items": lines, "Total": o.Total.StringFixed(2),
	})
	return o, nil
}

// ForCustomer lists the customer's orders: the user's when signed in, the
// session's otherwise.
func (s *OrderService) ForCustomer(storeID, userID, sid string) ([]domain.Order, error) {
	return s.Orders.ListForCustomer(storeID, userID, sid)
}

// Order loads one order by number if it belongs to the caller. Orders of
// other customers are reported as not found.
func (s *OrderService) Order(storeID, number, userID, sid string) (domain.Order, []domain.OrderItem, error) {
	o, err := s.Orders.ByNumber(storeID, number)
	if errors.Is(err, repos.ErrNotFound) {
		return domain.Order{}, nil, ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, nil, err
	}
	owned := o.SessionID == sid
	if o.UserID != "" {
		owned = o.UserID == userID
	}
	if !owned {
		return domain.Order{}, nil, ErrOrderNotFound
	}
	items, err := s.Orders.Items(o.ID)
	return o, items, err
}

// SetStatus changes an order's status from the admin. Any string is
// accepted; the known statuses are only what the admin offers.
func (s *OrderService) SetStatus(ctx context.Context, storeID, orderID, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return fmt.Errorf("status is required")
	}
	if err := s.Orders.UpdateStatus(storeID, orderID, status); err != nil {
		return err
	}
	publish(ctx, s.Events, events.OrderStatusChanged, storeID, map[string]any{"order_id": orderID, "status": status})
	return nil
}
