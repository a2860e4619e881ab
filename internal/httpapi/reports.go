package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"inventora/webclient/internal/export"
	"inventora/webclient/internal/report"
)

type emailReportRequest struct {
	Format string `json:"format"`
	Page   *int   `json:"page,omitempty"`
}

// handleReports serves /api/v1/reports/{kind}, /{kind}/export and /{kind}/email.
func (a *API) handleReports(w http.ResponseWriter, r *http.Request) {
	tail, ok := pathTail(w, r, "/api/v1/reports/", "report type required")
	if !ok {
		return
	}
	rawKind, action, _ := strings.Cut(tail, "/")
	kind, err := report.ParseKind(rawKind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		data, err := a.service.Report(r.Context(), kind, parsePositiveLimit(r.URL.Query().Get("page"), 1, maxPage))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, data)
	case "export":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		a.exportReport(w, r, kind)
	case "email":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		var req emailReportRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		format, err := export.ParseFormat(req.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		page := 1
		if req.Page != nil {
			page = *req.Page
		}
		if page < 0 || page > maxPage {
			writeError(w, http.StatusBadRequest, fmt.Errorf("page must be between 0 and %d", maxPage))
			return
		}
		if err := a.service.EmailReport(r.Context(), kind, format, page); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Email sent successfully!"})
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown report action"))
	}
}

func (a *API) exportReport(w http.ResponseWriter, r *http.Request, kind report.Kind) {
	query := r.URL.Query()
	format, err := export.ParseFormat(query.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	page, err := parsePage(query.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	file, err := a.service.ExportReport(r.Context(), kind, format, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	disposition := "attachment"
	if format == export.FormatPrint {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

// parsePage reads the export page. Empty means the first page and "all"
// means every row.
func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "":
		return 1, nil
	case "all":
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > maxPage {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}
