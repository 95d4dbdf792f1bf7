package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

// memStore is an in-memory CatalogStore + OrderStore + SiteProfileStore + AdminStore.
type memStore struct {
	mu sync.Mutex

	products   map[string]domain.Product
	categories map[string]domain.Category
	orders     map[string]domain.Order
	lines      map[string][]domain.OrderLine
	profile    *domain.SiteProfile
	admins     map[string]domain.Admin

	fetchCalls     [][]string
	insertOrders   int
	insertLines    int
	nextOrder      int
	failFetch      error
	onFetch        func()
	failInsert     error
	failLines      error
	failProfile    error
	failDelProds   error
	failDelCat     error
	failSortOn     string
	sortCalls      []domain.SortEntry
	profileUpserts []Patch
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]domain.Product{},
		categories: map[string]domain.Category{},
		orders:     map[string]domain.Order{},
		lines:      map[string][]domain.OrderLine{},
		admins:     map[string]domain.Admin{},
	}
}

func (m *memStore) addProduct(id, name, price string, categoryID string) {
	p := domain.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), IsAvailable: true}
	if categoryID != "" {
		c := categoryID
		p.CategoryID = &c
	}
	m.products[id] = p
}

func (m *memStore) storeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetchCalls) + m.insertOrders + m.insertLines
}

// --- catalog ---

func (m *memStore) FetchProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls = append(m.fetchCalls, append([]string(nil), ids...))
	if m.onFetch != nil {
		m.onFetch()
	}
	if m.failFetch != nil {
		return nil, m.failFetch
	}
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ListProducts(ctx context.Context, onlyAvailable bool) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if onlyAvailable && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *memStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &p, nil
}

func (m *memStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) UpdateProduct(ctx context.Context, id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return ErrRecordNotFound
	}
	if v, ok := patch.String("name"); ok {
		p.Name = v
	}
	if v, ok := patch.Decimal("price"); ok {
		p.Price = v
	}
	m.products[id] = p
	return nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) DeleteProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelProds != nil {
		return 0, m.failDelProds
	}
	var n int64
	for id, p := range m.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			delete(m.products, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) SetProductSortOrder(ctx context.Context, id string, sortOrder int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == m.failSortOn {
		return errBoom
	}
	m.sortCalls = append(m.sortCalls, domain.SortEntry{ID: id, SortOrder: sortOrder})
	return nil
}

func (m *memStore) ListCategories(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.categories {
		if onlyActive && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &c, nil
}

func (m *memStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = *c
	return nil
}

func (m *memStore) UpdateCategory(ctx context.Context, id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return ErrRecordNotFound
	}
	if v, ok := patch.String("name"); ok {
		c.Name = v
	}
	m.categories[id] = c
	return nil
}

func (m *memStore) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelCat != nil {
		return m.failDelCat
	}
	if _, ok := m.categories[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) SetCategorySortOrder(ctx context.Context, id string, sortOrder int) error {
	return m.SetProductSortOrder(ctx, id, sortOrder)
}

// --- orders ---

func (m *memStore) InsertOrder(ctx context.Context, header domain.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertOrders++
	if m.failInsert != nil {
		return "", m.failInsert
	}
	m.nextOrder++
	id := fmt.Sprintf("order-%d", m.nextOrder)
	header.ID = id
	m.orders[id] = header
	return id, nil
}

func (m *memStore) InsertOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertLines++
	if m.failLines != nil {
		return m.failLines
	}
	if _, ok := m.orders[orderID]; !ok {
		return fmt.Errorf("order %s does not exist", orderID)
	}
	for _, l := range lines {
		if l.OrderID != orderID {
			return fmt.Errorf("line without parent id")
		}
	}
	m.lines[orderID] = append(m.lines[orderID], lines...)
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	o.Lines = append([]domain.OrderLine(nil), m.lines[id]...)
	return &o, nil
}

func (m *memStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for id, o := range m.orders {
		o.Lines = m.lines[id]
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) DeleteAllOrders(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = map[string][]domain.OrderLine{}
	m.orders = map[string]domain.Order{}
	return nil
}

// --- site profile ---

func (m *memStore) NotificationDestination(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failProfile != nil {
		return "", false, m.failProfile
	}
	if m.profile == nil || m.profile.WhatsApp == "" {
		return "", false, nil
	}
	return m.profile.WhatsApp, true, nil
}

func (m *memStore) GetSiteProfile(ctx context.Context) (*domain.SiteProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil, ErrRecordNotFound
	}
	p := *m.profile
	return &p, nil
}

func (m *memStore) UpsertSiteProfile(ctx context.Context, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profileUpserts = append(m.profileUpserts, patch)
	if m.profile == nil {
		m.profile = &domain.SiteProfile{ID: "about-1"}
	}
	if v, ok := patch.String("whatsapp"); ok {
		m.profile.WhatsApp = v
	}
	if v, ok := patch.String("name"); ok {
		m.profile.Name = v
	}
	return nil
}

// --- admins ---

func (m *memStore) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &a, nil
}

func (m *memStore) InsertAdmin(ctx context.Context, a domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[a.ID] = a
	return nil
}

func (m *memStore) UpdateAdmin(ctx context.Context, id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return ErrRecordNotFound
	}
	if v, ok := patch.String("name"); ok {
		a.Name = v
	}
	if v, ok := patch.String("phone"); ok {
		a.Phone = v
	}
	m.admins[id] = a
	return nil
}

func (m *memStore) DeleteAdmin(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.admins, id)
	return nil
}

// memIdem is an in-memory IdempotencyStore. Like a network store it refuses
// work on a done context.
type memIdem struct {
	mu     sync.Mutex
	locks      map[string]bool
	values     map[string]string
	failRecall error
}

func newMemIdem() *memIdem {
	return &memIdem{locks: map[string]bool{}, values: map[string]string{}}
}

func (s *memIdem) TryLock(ctx context.Context, scope, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scope + ":" + key
	if s.locks[k] {
		return false, nil
	}
	s.locks[k] = true
	return true, nil
}

func (s *memIdem) Remember(ctx context.Context, scope, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[scope+":"+key] = value
	return nil
}

func (s *memIdem) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s.failRecall != nil {
		return "", false, s.failRecall
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[scope+":"+key]
	return v, ok, nil
}

func (s *memIdem) Release(ctx context.Context, scope, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, scope+":"+key)
	return nil
}

// recorder captures published events.
type recorder struct {
	mu      sync.Mutex
	placed  []OrderPlacedMsg
	catalog []CatalogChangedMsg
	fail    error
}

func (r *recorder) PublishPlaced(ctx context.Context, msg OrderPlacedMsg) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placed = append(r.placed, msg)
	return r.fail
}

func (r *recorder) PublishCatalogChanged(ctx context.Context, msg CatalogChangedMsg) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = append(r.catalog, msg)
	return r.fail
}

// memSummaries is an in-memory SummaryCache.
type memSummaries struct {
	mu    sync.Mutex
	texts map[string]string
}

func (c *memSummaries) SetSummary(ctx context.Context, orderID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.texts == nil {
		c.texts = map[string]string{}
	}
	c.texts[orderID] = text
	return nil
}

func (c *memSummaries) GetSummary(ctx context.Context, orderID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.texts[orderID]
	return t, ok, nil
}

// fakeIDP is an IdentityProvider backed by a map of email -> password.
type fakeIDP struct {
	users   map[string]string
	ids     map[string]string
	signOut []string
	fail    error
}

func (f *fakeIDP) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	if f.fail != nil {
		return domain.Session{}, f.fail
	}
	if pw, ok := f.users[email]; !ok || pw != password {
		return domain.Session{}, ErrUnauthorized
	}
	return domain.Session{
		AccessToken: "token-" + f.ids[email],
		User:        domain.Identity{ID: f.ids[email], Email: email, Role: "authenticated"},
	}, nil
}

func (f *fakeIDP) SignUp(ctx context.Context, email, password, name string) (domain.Identity, error) {
	if f.fail != nil {
		return domain.Identity{}, f.fail
	}
	id := "user-" + email
	if f.users == nil {
		f.users, f.ids = map[string]string{}, map[string]string{}
	}
	f.users[email] = password
	f.ids[email] = id
	return domain.Identity{ID: id, Email: email}, nil
}

func (f *fakeIDP) SignOut(ctx context.Context, accessToken string) error {
	f.signOut = append(f.signOut, accessToken)
	return f.fail
}
