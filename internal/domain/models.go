package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Unit string

const (
	UnitKg    Unit = "kg"
	UnitLitre Unit = "litre"
)

func (u Unit) Valid() bool {
	return u == UnitKg || u == UnitLitre
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Mobile  string `json:"mobile"`
}

func (c Customer) EntityID() string { return c.ID }

func (c Customer) SearchText() []string { return []string{c.Name} }

type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type InventoryItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Unit        Unit            `json:"unit"`
	Price       decimal.Decimal `json:"price"`
}

func (i InventoryItem) EntityID() string { return i.ID }

// SearchText exposes the price in its plain decimal form so a query like
// "50" finds every item priced 50 or 150.
func (i InventoryItem) SearchText() []string { return []string{i.Name, i.Price.String()} }

// SaleLine is one line of a submitted or persisted sale. It carries the line
// total but not the unit price.
type SaleLine struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type Sale struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receiptNumber"`
	Date          time.Time       `json:"date"`
	Customer      CustomerRef     `json:"customer"`
	Items         []SaleLine      `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

func (s Sale) TotalQuantity() int {
	total := 0
	for _, line := range s.Items {
		total += line.Quantity
	}
	return total
}

// NewSale is the payload handed to the remote API when a cart is completed.
// Date is a calendar date in UTC, formatted YYYY-MM-DD.
type NewSale struct {
	Date       string          `json:"date"`
	CustomerID string          `json:"customerId"`
	Items      []SaleLine      `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

type SaleReceipt struct {
	ReceiptNumber string `json:"receiptNumber,omitempty"`
	Message       string `json:"message"`
}

type CartLine struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// CartView is the read model of an open sale composer.
type CartView struct {
	Customer        *Customer       `json:"customer,omitempty"`
	CustomerQuery   string          `json:"customerQuery"`
	CustomerResults []Customer      `json:"customerResults"`
	Item            *InventoryItem  `json:"item,omitempty"`
	ItemQuery       string          `json:"itemQuery"`
	ItemResults     []InventoryItem `json:"itemResults"`
	Quantity        int             `json:"quantity"`
	Lines           []CartLine      `json:"lines"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
}

type EarningsPoint struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type DashboardSummary struct {
	TotalItems     int             `json:"totalItems"`
	TotalCustomers int             `json:"totalCustomers"`
	TotalSales     int             `json:"totalSales"`
	NewCustomers   []Customer      `json:"newCustomers"`
	NewItems       []InventoryItem `json:"newItems"`
	Earnings       []EarningsPoint `json:"earnings"`
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}
