package service

import (
	"context"
	"fmt"
	"log"

	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/export"
	"inventora/webclient/internal/report"
	"inventora/webclient/internal/session"
)

func (s *Service) reportData(ctx context.Context, sess *session.Session, kind report.Kind, page int) (report.Data, error) {
	var (
		sales []domain.Sale
		items []domain.InventoryItem
		err   error
	)
	switch kind {
	case report.KindSales:
		sales, err = s.sales(ctx, sess)
	case report.KindItems:
		items, err = s.items(ctx, sess)
	default:
		return report.Data{}, fmt.Errorf("%w: %q", report.ErrUnknownKind, kind)
	}
	if err != nil {
		return report.Data{}, err
	}
	if page == 0 {
		return report.All(kind, sales, items)
	}
	return report.Build(kind, sales, items, page, s.reportPageSize)
}

// Report returns one page of the report. Pages outside the data are empty.
func (s *Service) Report(ctx context.Context, kind report.Kind, page int) (report.Data, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return report.Data{}, err
	}
	if page < 1 {
		page = 1
	}
	return s.reportData(ctx, sess, kind, page)
}

// ExportReport renders the given page, or every row when page is 0.
func (s *Service) ExportReport(ctx context.Context, kind report.Kind, format export.Format, page int) (export.File, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return export.File{}, err
	}
	data, err := s.reportData(ctx, sess, kind, page)
	if err != nil {
		return export.File{}, err
	}
	return export.Render(format, data)
}

// EmailReport mails the rendered report to the signed-in user.
func (s *Service) EmailReport(ctx context.Context, kind report.Kind, format export.Format, page int) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	data, err := s.reportData(ctx, sess, kind, page)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, sess.User.Email, data, format); err != nil {
		log.Printf("[service] WARN: email %s report to user=%s failed: %v", kind, sess.User.ID, err)
		return err
	}
	log.Printf("[service] emailed %s report (%s) to user=%s", kind, format, sess.User.ID)
	return nil
}
