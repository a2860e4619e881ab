package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"inventora/webclient/internal/domain"
)

var ErrMalformedResponse = errors.New("malformed response from inventory api")

// flexString accepts a JSON string or number. Record ids and receipt numbers
// arrive in either form.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

type wireUser struct {
	ID    flexString `json:"_id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

type wireAuthResponse struct {
	Message string    `json:"message"`
	User    *wireUser `json:"user"`
}

type wireCustomer struct {
	ID      flexString `json:"_id"`
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Mobile  flexString `json:"mobile"`
}

type wireCustomerInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Mobile  string `json:"mobile"`
}

type wireItem struct {
	ID          flexString      `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    *int            `json:"quantity"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
}

type wireItemInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	Unit        string      `json:"unit"`
	Price       json.Number `json:"price"`
}

// wireCustomerRef is a sale's customerId: either populated with the customer
// document or left as a bare id.
type wireCustomerRef struct {
	ID   string
	Name string
}

func (r *wireCustomerRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var populated struct {
			ID   flexString `json:"_id"`
			Name string     `json:"name"`
		}
		if err := json.Unmarshal(b, &populated); err != nil {
			return err
		}
		r.ID, r.Name = string(populated.ID), populated.Name
		return nil
	}
	var id flexString
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	r.ID = string(id)
	return nil
}

type wireSaleLine struct {
	ID       flexString      `json:"_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type wireSale struct {
	ID            flexString      `json:"_id"`
	ReceiptNumber flexString      `json:"receiptNumber"`
	Date          string          `json:"date"`
	Customer      wireCustomerRef `json:"customerId"`
	Items         []wireSaleLine  `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

type wireNewSaleLine struct {
	ID       string      `json:"_id"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Total    json.Number `json:"total"`
}

type wireNewSale struct {
	Date        string            `json:"date"`
	CustomerID  string            `json:"customerId"`
	TotalAmount json.Number       `json:"totalAmount"`
	Items       []wireNewSaleLine `json:"items"`
}

type wireSaleCreated struct {
	Message       string     `json:"message"`
	ReceiptNumber flexString `json:"receiptNumber"`
	Sale          *struct {
		ReceiptNumber flexString `json:"receiptNumber"`
	} `json:"sale"`
}

type wireEarnings struct {
	Date       string          `json:"_id"`
	TotalSales decimal.Decimal `json:"totalSales"`
}

type wireDashboard struct {
	TotalItems     int            `json:"totalItems"`
	TotalCustomers int            `json:"totalCustomers"`
	TotalSales     int            `json:"totalSales"`
	NewCustomers   []wireCustomer `json:"newCustomers"`
	NewItems       []wireItem     `json:"newItems"`
	Earnings       []wireEarnings `json:"earnings"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

func (w wireUser) toDomain() (domain.UserInfo, error) {
	if w.ID == "" || strings.TrimSpace(w.Email) == "" {
		return domain.UserInfo{}, malformed("user without id or email")
	}
	return domain.UserInfo{ID: string(w.ID), Name: w.Name, Email: w.Email}, nil
}

func (w wireCustomer) toDomain() (domain.Customer, error) {
	if w.ID == "" || strings.TrimSpace(w.Name) == "" {
		return domain.Customer{}, malformed("customer without id or name")
	}
	return domain.Customer{ID: string(w.ID), Name: w.Name, Address: w.Address, Mobile: string(w.Mobile)}, nil
}

func (w wireItem) toDomain() (domain.InventoryItem, error) {
	if w.ID == "" || strings.TrimSpace(w.Name) == "" {
		return domain.InventoryItem{}, malformed("item without id or name")
	}
	if w.Quantity == nil || *w.Quantity < 0 {
		return domain.InventoryItem{}, malformed("item %s has no valid quantity", w.ID)
	}
	if w.Price.IsNegative() {
		return domain.InventoryItem{}, malformed("item %s has a negative price", w.ID)
	}
	unit := domain.Unit(strings.ToLower(strings.TrimSpace(w.Unit)))
	if unit == "" {
		unit = domain.UnitKg
	}
	if !unit.Valid() {
		return domain.InventoryItem{}, malformed("item %s has unknown unit %q", w.ID, w.Unit)
	}
	return domain.InventoryItem{
		ID:          string(w.ID),
		Name:        w.Name,
		Description: w.Description,
		Quantity:    *w.Quantity,
		Unit:        unit,
		Price:       w.Price,
	}, nil
}

var saleDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"}

func parseSaleDate(raw string) (time.Time, error) {
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, malformed("unparseable sale date %q", raw)
}

func (w wireSale) toDomain() (domain.Sale, error) {
	if w.ID == "" {
		return domain.Sale{}, malformed("sale without id")
	}
	date, err := parseSaleDate(w.Date)
	if err != nil {
		return domain.Sale{}, err
	}
	sale := domain.Sale{
		ID:            string(w.ID),
		ReceiptNumber: string(w.ReceiptNumber),
		Date:          date,
		Customer:      domain.CustomerRef{ID: w.Customer.ID, Name: w.Customer.Name},
		Items:         make([]domain.SaleLine, 0, len(w.Items)),
		Total:         w.TotalAmount,
	}
	for _, line := range w.Items {
		if line.Quantity < 0 || line.Total.IsNegative() {
			return domain.Sale{}, malformed("sale %s has a negative line", w.ID)
		}
		sale.Items = append(sale.Items, domain.SaleLine{
			ItemID:   string(line.ID),
			Name:     line.Name,
			Quantity: line.Quantity,
			Total:    line.Total,
		})
	}
	return sale, nil
}

func newSaleToWire(sale domain.NewSale) wireNewSale {
	out := wireNewSale{
		Date:        sale.Date,
		CustomerID:  sale.CustomerID,
		TotalAmount: json.Number(sale.Total.String()),
		Items:       make([]wireNewSaleLine, 0, len(sale.Items)),
	}
	for _, line := range sale.Items {
		out.Items = append(out.Items, wireNewSaleLine{
			ID:       line.ItemID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Total:    json.Number(line.Total.String()),
		})
	}
	return out
}

func itemToWire(item domain.InventoryItem) wireItemInput {
	return wireItemInput{
		Name:        item.Name,
		Description: item.Description,
		Quantity:    item.Quantity,
		Unit:        string(item.Unit),
		Price:       json.Number(item.Price.String()),
	}
}
