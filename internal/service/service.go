package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"inventora/webclient/internal/cache"
	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/export"
	"inventora/webclient/internal/gateway"
	"inventora/webclient/internal/report"
	"inventora/webclient/internal/search"
	"inventora/webclient/internal/session"
)

type sessionContextKey struct{}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*session.Session)
	return s, ok && s != nil
}

// GatewayFactory returns a new remote-API client with an empty cookie jar.
type GatewayFactory func() (*gateway.Client, error)

type Options struct {
	ViewTTL        time.Duration
	ReportPageSize int
	ListPageSize   int
}

type Service struct {
	sessions       *session.Manager
	views          cache.ViewCache
	mailer         *export.Mailer
	newGateway     GatewayFactory
	viewTTL        time.Duration
	reportPageSize int
	listPageSize   int
}

func New(sessions *session.Manager, views cache.ViewCache, mailer *export.Mailer, newGateway GatewayFactory, opts Options) *Service {
	if views == nil {
		views = cache.NoopViewCache{}
	}
	if opts.ViewTTL <= 0 {
		opts.ViewTTL = 30 * time.Second
	}
	if opts.ReportPageSize <= 0 {
		opts.ReportPageSize = report.DefaultPageSize
	}
	if opts.ListPageSize <= 0 {
		opts.ListPageSize = 10
	}
	return &Service{
		sessions:       sessions,
		views:          views,
		mailer:         mailer,
		newGateway:     newGateway,
		viewTTL:        opts.ViewTTL,
		reportPageSize: opts.ReportPageSize,
		listPageSize:   opts.ListPageSize,
	}
}

// Session resolves a session id carried by an access token.
func (s *Service) Session(id string) (*session.Session, error) {
	return s.sessions.Get(id)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*session.Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	client, err := s.newGateway()
	if err != nil {
		return nil, err
	}
	user, err := client.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.Load(user, client)
	log.Printf("[service] login user=%s session=%s", user.ID, sess.ID)
	return sess, nil
}

func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	client, err := s.newGateway()
	if err != nil {
		return "", err
	}
	return client.Signup(ctx, req)
}

// Logout clears the session locally even when the remote sign-out fails.
func (s *Service) Logout(ctx context.Context) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	s.sessions.Clear(sess.ID)
	if err := sess.Gateway.Signout(ctx); err != nil {
		log.Printf("[service] WARN: remote signout failed user=%s: %v", sess.User.ID, err)
	}
	return nil
}

func (s *Service) CurrentUser(ctx context.Context) (domain.UserInfo, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return domain.UserInfo{}, err
	}
	return sess.User, nil
}

func requireSession(ctx context.Context) (*session.Session, error) {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return nil, session.ErrExpired
	}
	return sess, nil
}

// Customers

func (s *Service) ListCustomers(ctx context.Context, query string, page int) (domain.Page[domain.Customer], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return domain.Page[domain.Customer]{}, err
	}
	customers, err := s.customers(ctx, sess)
	if err != nil {
		return domain.Page[domain.Customer]{}, err
	}
	rows := search.Match(query, customers, func(c domain.Customer) []string {
		return []string{c.Name, c.Address, c.Mobile}
	})
	return paged(rows, page, s.listPageSize), nil
}

func (s *Service) CreateCustomer(ctx context.Context, in domain.CustomerInput) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	customer, err := in.Customer()
	if err != nil {
		return err
	}
	if err := sess.Gateway.CreateCustomer(ctx, customer); err != nil {
		return err
	}
	s.invalidate(ctx, sess, customerMutation...)
	return nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, in domain.CustomerInput) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("customer id required")
	}
	customer, err := in.Customer()
	if err != nil {
		return err
	}
	if err := sess.Gateway.UpdateCustomer(ctx, id, customer); err != nil {
		return err
	}
	s.invalidate(ctx, sess, customerMutation...)
	return nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("customer id required")
	}
	if err := sess.Gateway.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, sess, customerMutation...)
	return nil
}

// Inventory

func (s *Service) ListItems(ctx context.Context, query string, page int) (domain.Page[domain.InventoryItem], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return domain.Page[domain.InventoryItem]{}, err
	}
	items, err := s.items(ctx, sess)
	if err != nil {
		return domain.Page[domain.InventoryItem]{}, err
	}
	rows := search.Match(query, items, func(i domain.InventoryItem) []string {
		return []string{i.Name, i.Description}
	})
	return paged(rows, page, s.listPageSize), nil
}

func (s *Service) CreateItem(ctx context.Context, form domain.ItemForm) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	item, err := form.Item()
	if err != nil {
		return err
	}
	if err := sess.Gateway.CreateItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx, sess, itemMutation...)
	return nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, form domain.ItemForm) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("item id required")
	}
	item, err := form.Item()
	if err != nil {
		return err
	}
	if err := sess.Gateway.UpdateItem(ctx, id, item); err != nil {
		return err
	}
	s.invalidate(ctx, sess, itemMutation...)
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invalid("item id required")
	}
	if err := sess.Gateway.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, sess, itemMutation...)
	return nil
}

// Sales

// SaleRow is one line of the sales list.
type SaleRow struct {
	domain.Sale
	TotalQuantity int    `json:"totalQuantity"`
	ItemsSummary  string `json:"itemsSummary"`
}

func (s *Service) ListSales(ctx context.Context, customerQuery string, page int) (domain.Page[SaleRow], error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return domain.Page[SaleRow]{}, err
	}
	sales, err := s.sales(ctx, sess)
	if err != nil {
		return domain.Page[SaleRow]{}, err
	}
	matched := search.Match(customerQuery, sales, func(sale domain.Sale) []string {
		return []string{sale.Customer.Name}
	})
	rows := make([]SaleRow, 0, len(matched))
	for _, sale := range matched {
		parts := make([]string, 0, len(sale.Items))
		for _, line := range sale.Items {
			parts = append(parts, fmt.Sprintf("%s (%d)", line.Name, line.Quantity))
		}
		rows = append(rows, SaleRow{Sale: sale, TotalQuantity: sale.TotalQuantity(), ItemsSummary: strings.Join(parts, ", ")})
	}
	return paged(rows, page, s.listPageSize), nil
}

func (s *Service) Dashboard(ctx context.Context) (domain.DashboardSummary, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	return cachedView(ctx, s, sess, cache.CollectionDashboard, sess.Gateway.Dashboard)
}

func paged[T any](rows []T, page, size int) domain.Page[T] {
	if page < 1 {
		page = 1
	}
	return domain.Page[T]{
		Items:      report.Paginate(rows, page, size),
		Page:       page,
		PageSize:   size,
		TotalPages: report.PageCount(len(rows), size),
		Total:      len(rows),
	}
}
