// Package cart aggregates a single sale before it is submitted: customer and
// item pickers, a pending quantity, and the list of cart lines.
package cart

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/search"
)

const saleDateLayout = "2006-01-02"

// Backend is the slice of the remote API the composer needs.
type Backend interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)
	CreateSale(ctx context.Context, sale domain.NewSale) (domain.SaleReceipt, error)
}

// Composer is not safe for concurrent use; callers serialise access.
type Composer struct {
	backend   Backend
	now       func() time.Time
	opened    bool
	customers search.Picker[domain.Customer]
	items     search.Picker[domain.InventoryItem]
	quantity  int
	lines     []domain.CartLine
}

func NewComposer(backend Backend) *Composer {
	return &Composer{
		backend:  backend,
		now:      time.Now,
		quantity: 1,
	}
}

// WithClock replaces the clock used to date submitted sales.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Open loads both corpora and starts a fresh workflow. Any earlier cart is
// discarded.
func (c *Composer) Open(ctx context.Context) error {
	customers, items, err := c.fetchCorpora(ctx)
	if err != nil {
		return err
	}

	c.customers = search.Picker[domain.Customer]{}
	c.items = search.Picker[domain.InventoryItem]{}
	c.customers.SetCorpus(customers)
	c.items.SetCorpus(items)
	c.quantity = 1
	c.lines = nil
	c.opened = true
	return nil
}

func (c *Composer) Opened() bool { return c.opened }

// Close abandons the workflow and everything in it.
func (c *Composer) Close() {
	c.customers = search.Picker[domain.Customer]{}
	c.items = search.Picker[domain.InventoryItem]{}
	c.quantity = 1
	c.lines = nil
	c.opened = false
}

func (c *Composer) fetchCorpora(ctx context.Context) ([]domain.Customer, []domain.InventoryItem, error) {
	var (
		customers []domain.Customer
		items     []domain.InventoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customers, err = c.backend.ListCustomers(gctx)
		if err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = c.backend.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return customers, items, nil
}

func (c *Composer) SearchCustomers(query string) []domain.Customer {
	return c.customers.Search(query)
}

func (c *Composer) SelectCustomer(id string) (domain.Customer, error) {
	return c.customers.Select(id)
}

func (c *Composer) SearchItems(query string) []domain.InventoryItem {
	return c.items.Search(query)
}

func (c *Composer) SelectItem(id string) (domain.InventoryItem, error) {
	return c.items.Select(id)
}

// SetQuantity takes the raw text of the quantity input. Anything other than
// digits is refused and the pending quantity stays as it was.
func (c *Composer) SetQuantity(raw string) error {
	qty, err := domain.ParseQuantity(raw)
	if err != nil {
		return err
	}
	c.quantity = qty
	return nil
}

func (c *Composer) Quantity() int { return c.quantity }

// AddItem moves the selected item at the pending quantity into the cart.
// A line for the same item is merged rather than duplicated. The stock check
// compares the requested quantity with the item's stock as loaded.
func (c *Composer) AddItem() (domain.CartLine, error) {
	item, ok := c.items.Selected()
	if !ok {
		return domain.CartLine{}, domain.Invalid("Select an item first.")
	}
	if c.quantity < 1 {
		return domain.CartLine{}, domain.Invalid("Quantity must be at least 1.")
	}
	if c.quantity > item.Quantity {
		return domain.CartLine{}, fmt.Errorf("%w: %s has %d %s left", domain.ErrInsufficientStock, item.Name, item.Quantity, item.Unit)
	}

	var added domain.CartLine
	merged := false
	for i := range c.lines {
		if c.lines[i].ItemID != item.ID {
			continue
		}
		c.lines[i].Quantity += c.quantity
		c.lines[i].Total = lineTotal(c.lines[i].Price, c.lines[i].Quantity)
		added = c.lines[i]
		merged = true
		break
	}
	if !merged {
		added = domain.CartLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: c.quantity,
			Total:    lineTotal(item.Price, c.quantity),
		}
		c.lines = append(c.lines, added)
	}

	c.items.Reset()
	c.quantity = 1
	return added, nil
}

// DeleteItem drops the line for itemID. Unknown ids are ignored.
func (c *Composer) DeleteItem(itemID string) {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

func (c *Composer) Lines() []domain.CartLine {
	return append([]domain.CartLine{}, c.lines...)
}

// GrandTotal is always recomputed from the lines.
func (c *Composer) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total)
	}
	return total
}

func (c *Composer) View() domain.CartView {
	view := domain.CartView{
		CustomerQuery:   c.customers.Query(),
		CustomerResults: c.customers.Results(),
		ItemQuery:       c.items.Query(),
		ItemResults:     c.items.Results(),
		Quantity:        c.quantity,
		Lines:           c.Lines(),
		GrandTotal:      c.GrandTotal(),
	}
	if customer, ok := c.customers.Selected(); ok {
		view.Customer = &customer
	}
	if item, ok := c.items.Selected(); ok {
		view.Item = &item
	}
	return view
}

// Complete submits the cart as one sale. Preconditions are checked before
// any remote call. Each line is then checked against freshly loaded stock,
// which also catches merged lines that outgrew the item's stock. On success
// the cart, customer and queries are cleared but the workflow stays open.
func (c *Composer) Complete(ctx context.Context) (domain.SaleReceipt, error) {
	customer, ok := c.customers.Selected()
	if !ok || len(c.lines) == 0 {
		return domain.SaleReceipt{}, domain.ErrIncompleteSale
	}

	items, err := c.backend.ListItems(ctx)
	if err != nil {
		return domain.SaleReceipt{}, fmt.Errorf("load items: %w", err)
	}
	c.items.SetCorpus(items)
	if err := checkStock(c.lines, items); err != nil {
		return domain.SaleReceipt{}, err
	}

	sale := domain.NewSale{
		Date:       c.now().UTC().Format(saleDateLayout),
		CustomerID: customer.ID,
		Items:      make([]domain.SaleLine, 0, len(c.lines)),
		Total:      c.GrandTotal(),
	}
	for _, line := range c.lines {
		sale.Items = append(sale.Items, domain.SaleLine{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Total:    line.Total,
		})
	}

	receipt, err := c.backend.CreateSale(ctx, sale)
	if err != nil {
		return domain.SaleReceipt{}, err
	}

	c.lines = nil
	c.quantity = 1
	c.customers.Reset()
	c.items.Reset()
	if fresh, err := c.backend.ListItems(ctx); err != nil {
		log.Printf("[cart] WARN: refresh items after sale %s: %v", receipt.ReceiptNumber, err)
	} else {
		c.items.SetCorpus(fresh)
	}
	return receipt, nil
}

func checkStock(lines []domain.CartLine, items []domain.InventoryItem) error {
	stock := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		stock[item.ID] = item
	}
	for _, line := range lines {
		item, ok := stock[line.ItemID]
		if !ok {
			return fmt.Errorf("%w: %s is no longer in inventory", domain.ErrInsufficientStock, line.Name)
		}
		if line.Quantity > item.Quantity {
			return fmt.Errorf("%w: %s has %d %s left", domain.ErrInsufficientStock, item.Name, item.Quantity, item.Unit)
		}
	}
	return nil
}

func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
