package http

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	"github.com/shopspring/decimal"
)

// stubStore backs every store port with maps.
type stubStore struct {
	mu sync.Mutex

	products   map[string]domain.Product
	categories map[string]domain.Category
	orders     map[string]domain.Order
	profile    *domain.SiteProfile
	admins     map[string]domain.Admin
	seq        int

	failLines error
	sorted    []string
}

func newStubStore() *stubStore {
	return &stubStore{
		products:   map[string]domain.Product{},
		categories: map[string]domain.Category{},
		orders:     map[string]domain.Order{},
		admins:     map[string]domain.Admin{},
	}
}

func (s *stubStore) addProduct(id, name, price string) {
	s.products[id] = domain.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), IsAvailable: true}
}

func (s *stubStore) FetchProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubStore) ListProducts(ctx context.Context, onlyAvailable bool) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if !onlyAvailable || p.IsAvailable {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, usecase.ErrRecordNotFound
	}
	return &p, nil
}

func (s *stubStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *stubStore) UpdateProduct(ctx context.Context, id string, patch usecase.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return usecase.ErrRecordNotFound
	}
	if v, ok := patch.Decimal("price"); ok {
		p.Price = v
	}
	s.products[id] = p
	return nil
}

func (s *stubStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return usecase.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubStore) DeleteProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, p := range s.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			delete(s.products, id)
			n++
		}
	}
	return n, nil
}

func (s *stubStore) SetProductSortOrder(ctx context.Context, id string, sortOrder int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return usecase.ErrRecordNotFound
	}
	s.sorted = append(s.sorted, id)
	return nil
}

func (s *stubStore) ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Category
	for _, c := range s.categories {
		if !onlyActive || c.IsActive {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, usecase.ErrRecordNotFound
	}
	return &c, nil
}

func (s *stubStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = *c
	return nil
}

func (s *stubStore) UpdateCategory(ctx context.Context, id string, patch usecase.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return usecase.ErrRecordNotFound
	}
	return nil
}

func (s *stubStore) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return usecase.ErrRecordNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *stubStore) SetCategorySortOrder(ctx context.Context, id string, sortOrder int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return usecase.ErrRecordNotFound
	}
	s.sorted = append(s.sorted, id)
	return nil
}

func (s *stubStore) InsertOrder(ctx context.Context, header domain.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	header.ID = fmt.Sprintf("o-%d", s.seq)
	s.orders[header.ID] = header
	return header.ID, nil
}

func (s *stubStore) InsertOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLines != nil {
		return s.failLines
	}
	o := s.orders[orderID]
	o.Lines = append(o.Lines, lines...)
	s.orders[orderID] = o
	return nil
}

func (s *stubStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, usecase.ErrRecordNotFound
	}
	return &o, nil
}

func (s *stubStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *stubStore) DeleteAllOrders(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = map[string]domain.Order{}
	return nil
}

func (s *stubStore) NotificationDestination(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil || s.profile.WhatsApp == "" {
		return "", false, nil
	}
	return s.profile.WhatsApp, true, nil
}

func (s *stubStore) GetSiteProfile(ctx context.Context) (*domain.SiteProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, usecase.ErrRecordNotFound
	}
	p := *s.profile
	return &p, nil
}

func (s *stubStore) UpsertSiteProfile(ctx context.Context, patch usecase.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		s.profile = &domain.SiteProfile{ID: "ab-1", AcceptsOrders: true}
	}
	if v, ok := patch.String("whatsapp"); ok {
		s.profile.WhatsApp = v
	}
	return nil
}

func (s *stubStore) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, usecase.ErrRecordNotFound
	}
	return &a, nil
}

func (s *stubStore) InsertAdmin(ctx context.Context, a domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[a.ID] = a
	return nil
}

func (s *stubStore) UpdateAdmin(ctx context.Context, id string, patch usecase.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return usecase.ErrRecordNotFound
	}
	if v, ok := patch.String("phone"); ok {
		a.Phone = v
	}
	s.admins[id] = a
	return nil
}

func (s *stubStore) DeleteAdmin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[id]; !ok {
		return usecase.ErrRecordNotFound
	}
	delete(s.admins, id)
	return nil
}

// stubIDP accepts exactly one password for every user.
type stubIDP struct {
	password string
	user     domain.Identity
	signOuts []string
}

func (p *stubIDP) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	if password != p.password {
		return domain.Session{}, fmt.Errorf("%w: bad password", usecase.ErrUnauthorized)
	}
	return domain.Session{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600, User: p.user}, nil
}

func (p *stubIDP) SignUp(ctx context.Context, email, password, name string) (domain.Identity, error) {
	return domain.Identity{ID: "new-" + name, Email: email}, nil
}

func (p *stubIDP) SignOut(ctx context.Context, accessToken string) error {
	p.signOuts = append(p.signOuts, accessToken)
	return nil
}
