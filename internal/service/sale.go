package service

import (
	"context"
	"log"

	"inventora/webclient/internal/cart"
	"inventora/webclient/internal/domain"
)

// The sale composer reads customers and items straight from the remote API,
// never through the view cache.

func (s *Service) composer(ctx context.Context, requireOpen bool, fn func(c *cart.Composer) error) (domain.CartView, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return domain.CartView{}, err
	}
	var view domain.CartView
	err = sess.WithComposer(func(c *cart.Composer) error {
		if requireOpen && !c.Opened() {
			return domain.Invalid("No sale in progress. Start a new sale first.")
		}
		if err := fn(c); err != nil {
			return err
		}
		view = c.View()
		return nil
	})
	return view, err
}

// OpenSale starts a new sale, loading customers and items once.
func (s *Service) OpenSale(ctx context.Context) (domain.CartView, error) {
	return s.composer(ctx, false, func(c *cart.Composer) error {
		return c.Open(ctx)
	})
}

func (s *Service) SaleCart(ctx context.Context) (domain.CartView, error) {
	return s.composer(ctx, true, func(*cart.Composer) error { return nil })
}

func (s *Service) SearchSaleCustomers(ctx context.Context, query string) (domain.CartView, error) {
	return s.composer(ctx, true, func(c *cart.Composer) error {
		c.SearchCustomers(query)
		return nil
	})
}

func (s *Service) SelectSaleCustomer(ctx context.Context, id string) (domain.CartView, error) {
	return s.composer(ctx, true, func(c *cart.Composer) error {
		_, err := c.SelectCustomer(id)
		return err
	})
}

func (s *Service) SearchSaleItems(ctx context.Context, query string) (domain.CartView, error) {
	return s.composer(ctx, true, func(c *cart.Composer) error {
		c.SearchItems(query)
		return nil
	})
}

func (s *Service) SelectSaleItem(ctx context.Context, id string) (domain.CartView, error) {
	return s.composer(ctx, true, func(c *cart.Composer) error {
		_, err := c.SelectItem(id)
		return err
	})
}

func (s *Service) SetSaleQuantity(ctx context.Context, raw string) (domain.CartView, error) {
	return s.composer(ctx, true, func(c *cart.Composer) error {
		return c.SetQuantity(raw)
	})
}

func (s *Service) AddSaleItem(ctx context.Context) (domain.CartView, error) {
	return s.composer(ctx, true, func(c *cart.Composer) error {
		_, err := c.AddItem()
		return err
	})
}

func (s *Service) RemoveSaleItem(ctx context.Context, itemID string) (domain.CartView, error) {
	return s.composer(ctx, true, func(c *cart.Composer) error {
		c.DeleteItem(itemID)
		return nil
	})
}

// CompleteSale submits the cart. On success the sales, items and dashboard
// views are invalidated; stock is decremented by the remote API.
func (s *Service) CompleteSale(ctx context.Context) (domain.SaleReceipt, domain.CartView, error) {
	var receipt domain.SaleReceipt
	view, err := s.composer(ctx, true, func(c *cart.Composer) error {
		var err error
		receipt, err = c.Complete(ctx)
		return err
	})
	if err != nil {
		return domain.SaleReceipt{}, domain.CartView{}, err
	}
	sess, _ := SessionFromContext(ctx)
	s.invalidate(ctx, sess, saleMutation...)
	log.Printf("[service] sale completed user=%s receipt=%s", sess.User.ID, receipt.ReceiptNumber)
	return receipt, view, nil
}

// CloseSale discards the sale in progress.
func (s *Service) CloseSale(ctx context.Context) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	return sess.WithComposer(func(c *cart.Composer) error {
		c.Close()
		return nil
	})
}
