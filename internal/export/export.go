// Package export serialises report.Data for download, printing and email.
package export

import (
	"errors"
	"fmt"
	"strings"

	"inventora/webclient/internal/report"
)

type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
	FormatPrint Format = "print"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatExcel:
		return FormatExcel, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatPrint:
		return FormatPrint, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

func (f Format) extension() string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	}
	return "html"
}

func (f Format) ContentType() string {
	switch f {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Filename follows "<kind>_report.<ext>", e.g. sales_report.xlsx.
func Filename(kind report.Kind, f Format) string {
	return fmt.Sprintf("%s_report.%s", kind, f.extension())
}

type File struct {
	Name        string
	ContentType string
	Body        []byte
}

func Render(f Format, data report.Data) (File, error) {
	var (
		body []byte
		err  error
	)
	switch f {
	case FormatExcel:
		body, err = Excel(data)
	case FormatPDF:
		body, err = PDF(data)
	case FormatPrint:
		body, err = PrintableHTML(data)
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return File{}, fmt.Errorf("render %s %s: %w", data.Kind, f, err)
	}
	return File{Name: Filename(data.Kind, f), ContentType: f.ContentType(), Body: body}, nil
}

func cellText(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
