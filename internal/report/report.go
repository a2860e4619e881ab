// Package report turns sales and inventory records into the tables shown on
// the reports screen and fed to the exporters.
package report

import (
	"errors"
	"fmt"
	"strings"

	"inventora/webclient/internal/domain"
)

type Kind string

const (
	KindSales Kind = "sales"
	KindItems Kind = "items"
)

const (
	DefaultPageSize = 8
	Currency        = "₹"
	dateLayout      = "02-01-2006"
)

var ErrUnknownKind = errors.New("unknown report type")

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindSales:
		return KindSales, nil
	case KindItems:
		return KindItems, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Title is the human label, e.g. "Sales Report".
func (k Kind) Title() string {
	if k == "" {
		return "Report"
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:]) + " Report"
}

var (
	salesHeaders = []string{"Date", "Customer", "Items", "Total"}
	itemsHeaders = []string{"Sr No", "Item Name", "Stock"}
)

// Data is one page of a report. Cells are strings or ints.
type Data struct {
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	Headers    []string `json:"headers"`
	Rows       [][]any  `json:"rows"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
}

// Build shapes the records of the given kind and returns the requested page.
// Item serial numbers count from the start of the full list, not the page.
// A page outside the data yields no rows.
func Build(kind Kind, sales []domain.Sale, items []domain.InventoryItem, page, pageSize int) (Data, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	data := Data{Kind: kind, Title: kind.Title(), Page: page}
	var rows [][]any
	switch kind {
	case KindSales:
		data.Headers = append([]string(nil), salesHeaders...)
		rows = make([][]any, 0, len(sales))
		for _, sale := range sales {
			rows = append(rows, saleRow(sale))
		}
	case KindItems:
		data.Headers = append([]string(nil), itemsHeaders...)
		rows = make([][]any, 0, len(items))
		for i, item := range items {
			rows = append(rows, []any{i + 1, item.Name, item.Quantity})
		}
	default:
		return Data{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	data.Rows = Paginate(rows, page, pageSize)
	data.TotalPages = PageCount(len(rows), pageSize)
	return data, nil
}

// All builds the report without paging, as one page holding every row.
func All(kind Kind, sales []domain.Sale, items []domain.InventoryItem) (Data, error) {
	size := len(sales)
	if kind == KindItems {
		size = len(items)
	}
	if size == 0 {
		size = 1
	}
	return Build(kind, sales, items, 1, size)
}

func saleRow(sale domain.Sale) []any {
	lines := make([]string, 0, len(sale.Items))
	for _, line := range sale.Items {
		lines = append(lines, fmt.Sprintf("%s %s%s x %d", line.Name, Currency, line.Total.String(), line.Quantity))
	}
	return []any{
		sale.Date.Format(dateLayout),
		sale.Customer.Name,
		strings.Join(lines, "\n"),
		Currency + sale.Total.String(),
	}
}

// TotalPages is ceil(n / pageSize) for the record set behind kind.
func TotalPages(kind Kind, sales []domain.Sale, items []domain.InventoryItem, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	switch kind {
	case KindSales:
		return PageCount(len(sales), pageSize), nil
	case KindItems:
		return PageCount(len(items), pageSize), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Paginate returns rows[(page-1)*size : page*size] clipped to the slice.
// Pages before the first or after the last are empty.
func Paginate[T any](rows []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	if page > PageCount(len(rows), size) {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return append([]T{}, rows[start:end]...)
}

func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
