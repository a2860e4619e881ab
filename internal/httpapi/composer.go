package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"inventora/webclient/internal/domain"
)

type searchRequest struct {
	Query string `json:"query"`
}

type selectRequest struct {
	ID string `json:"id"`
}

// quantityRequest accepts the quantity as typed text or as a JSON number.
type quantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

func (q quantityRequest) text() string {
	raw := bytes.TrimSpace(q.Quantity)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (a *API) handleComposer(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		view, err := a.service.SaleCart(r.Context())
		writeCart(w, view, err)
	case http.MethodPost:
		view, err := a.service.OpenSale(r.Context())
		writeCart(w, view, err)
	case http.MethodDelete:
		if err := a.service.CloseSale(r.Context()); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleComposerActions(w http.ResponseWriter, r *http.Request) {
	tail, ok := pathTail(w, r, "/api/v1/sales/composer/", "composer action required")
	if !ok {
		return
	}

	if strings.HasPrefix(tail, "lines/") {
		if r.Method != http.MethodDelete {
			writeMethodNotAllowed(w)
			return
		}
		itemID := strings.Trim(strings.TrimPrefix(tail, "lines/"), "/")
		if itemID == "" {
			writeError(w, http.StatusBadRequest, errors.New("item id required"))
			return
		}
		view, err := a.service.RemoveSaleItem(r.Context(), itemID)
		writeCart(w, view, err)
		return
	}

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	switch tail {
	case "customers/search":
		var req searchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := a.service.SearchSaleCustomers(r.Context(), req.Query)
		writeCart(w, view, err)
	case "customer":
		var req selectRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := a.service.SelectSaleCustomer(r.Context(), req.ID)
		writeCart(w, view, err)
	case "items/search":
		var req searchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := a.service.SearchSaleItems(r.Context(), req.Query)
		writeCart(w, view, err)
	case "item":
		var req selectRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := a.service.SelectSaleItem(r.Context(), req.ID)
		writeCart(w, view, err)
	case "quantity":
		var req quantityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := a.service.SetSaleQuantity(r.Context(), req.text())
		writeCart(w, view, err)
	case "lines":
		view, err := a.service.AddSaleItem(r.Context())
		writeCart(w, view, err)
	case "complete":
		receipt, view, err := a.service.CompleteSale(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"receipt": receipt, "cart": view})
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown composer action"))
	}
}

func writeCart(w http.ResponseWriter, view domain.CartView, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": view})
}
