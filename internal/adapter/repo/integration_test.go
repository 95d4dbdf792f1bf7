package repo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
	"github.com/ojuansoares/dolse-vitta/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// StoreSuite runs against a real MySQL when STOREFRONT_TEST_MYSQL_DSN is set
// (DSN needs parseTime=true&clientFoundRows=true). It wipes the tables it uses.
type StoreSuite struct {
	suite.Suite
	db      *DB
	catalog *SQLCatalogRepo
	orders  *SQLOrderRepo
	profile *SQLSiteProfileRepo
	admins  *SQLAdminRepo
}

func TestStoreSuite(t *testing.T) {
	dsn := os.Getenv("STOREFRONT_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_MYSQL_DSN not set")
	}
	suite.Run(t, &StoreSuite{})
}

func (s *StoreSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, "mysql", os.Getenv("STOREFRONT_TEST_MYSQL_DSN"), PoolConfig{MaxOpenConns: 4})
	s.Require().NoError(err)
	s.db = db

	schema, err := os.ReadFile("testdata/schema_mysql.sql")
	s.Require().NoError(err)
	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.ExecContext(ctx, stmt)
		s.Require().NoError(err)
	}

	s.catalog = NewSQLCatalogRepo(db)
	s.orders = NewSQLOrderRepo(db)
	s.profile = NewSQLSiteProfileRepo(db)
	s.admins = NewSQLAdminRepo(db)
}

func (s *StoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *StoreSuite) SetupTest() {
	for _, table := range []string{"order_item", "orders", "product", "category", "about", "admin"} {
		_, err := s.db.ExecContext(context.Background(), "DELETE FROM "+table)
		s.Require().NoError(err)
	}
}

func (s *StoreSuite) TestCatalogCascadeAndFetch() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	cat := "c1"

	s.Require().NoError(s.catalog.CreateCategory(ctx, &domain.Category{ID: cat, Name: "Bolos", IsActive: true, UpdatedAt: now}))
	s.Require().NoError(s.catalog.CreateProduct(ctx, &domain.Product{ID: "p1", Name: "Bolo", Price: decimal.RequireFromString("15.50"), CategoryID: &cat, IsAvailable: true, UpdatedAt: now}))
	s.Require().NoError(s.catalog.CreateProduct(ctx, &domain.Product{ID: "p2", Name: "Pudim", Price: decimal.RequireFromString("9.90"), IsAvailable: false, UpdatedAt: now}))

	got, err := s.catalog.FetchProducts(ctx, []string{"p1", "ghost"})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.True(got[0].Price.Equal(decimal.RequireFromString("15.50")))
	s.Require().NotNil(got[0].CategoryID)

	avail, err := s.catalog.ListProducts(ctx, true)
	s.Require().NoError(err)
	s.Len(avail, 1)

	patch := usecase.NewPatch()
	patch.Set("price", decimal.RequireFromString("16.00"))
	s.Require().NoError(s.catalog.UpdateProduct(ctx, "p1", patch))
	s.ErrorIs(s.catalog.UpdateProduct(ctx, "ghost", patch), usecase.ErrRecordNotFound)

	n, err := s.catalog.DeleteProductsByCategory(ctx, cat)
	s.Require().NoError(err)
	s.EqualValues(1, n)
	s.Require().NoError(s.catalog.DeleteCategory(ctx, cat))
	_, err = s.catalog.GetCategory(ctx, cat)
	s.ErrorIs(err, usecase.ErrRecordNotFound)
}

func (s *StoreSuite) TestOrderHeaderThenLines() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	names := []string{"Torta", "Bolo", "Brigadeiro", "Mousse"}
	var lines []domain.OrderLine
	for i, n := range names {
		p := domain.Product{ID: fmt.Sprintf("p%d", i+1), Name: n, Price: decimal.RequireFromString("15.50")}
		l := domain.NewOrderLine(p, 2)
		l.CreatedAt = now
		lines = append(lines, l)
	}

	id, err := s.orders.InsertOrder(ctx, domain.Order{CustomerName: "Maria", Total: domain.SumLines(lines), CreatedAt: now})
	s.Require().NoError(err)
	s.Require().NoError(s.orders.InsertOrderLines(ctx, id, domain.StampOrderID(id, lines)))

	o, err := s.orders.GetOrder(ctx, id)
	s.Require().NoError(err)
	s.Equal("Maria", o.CustomerName)
	s.Require().Len(o.Lines, len(names))
	for i, l := range o.Lines {
		s.Equal(names[i], l.ProductName)
	}
	s.True(o.Lines[0].Subtotal.Equal(decimal.RequireFromString("31.00")))

	all, err := s.orders.ListOrders(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Require().Len(all[0].Lines, len(names))
	for i, l := range all[0].Lines {
		s.Equal(names[i], l.ProductName)
	}

	s.Require().NoError(s.orders.DeleteAllOrders(ctx))
	_, err = s.orders.GetOrder(ctx, id)
	s.ErrorIs(err, usecase.ErrRecordNotFound)
}

func (s *StoreSuite) TestProfileUpsertAndDestination() {
	ctx := context.Background()

	_, ok, err := s.profile.NotificationDestination(ctx)
	s.Require().NoError(err)
	s.False(ok)

	patch := usecase.NewPatch()
	patch.Set("name", "Dolce Vitta")
	patch.Set("whatsapp", "+55 (11) 99999-0000")
	s.Require().NoError(s.profile.UpsertSiteProfile(ctx, patch))

	second := usecase.NewPatch()
	second.Set("city", "Campinas")
	s.Require().NoError(s.profile.UpsertSiteProfile(ctx, second))

	p, err := s.profile.GetSiteProfile(ctx)
	s.Require().NoError(err)
	s.Equal("Dolce Vitta", p.Name)
	s.Equal("Campinas", p.City)
	s.True(p.AcceptsOrders)

	dest, ok, err := s.profile.NotificationDestination(ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("+55 (11) 99999-0000", dest)
}

func (s *StoreSuite) TestAdminLifecycle() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	s.Require().NoError(s.admins.InsertAdmin(ctx, domain.Admin{ID: "u1", Email: "ana@doce.com", IsActive: true, CreatedAt: now}))

	patch := usecase.NewPatch()
	patch.Set("phone", "11 9999")
	s.Require().NoError(s.admins.UpdateAdmin(ctx, "u1", patch))

	a, err := s.admins.GetAdmin(ctx, "u1")
	s.Require().NoError(err)
	s.Equal("11 9999", a.Phone)
	s.True(a.IsActive)

	s.Require().NoError(s.admins.DeleteAdmin(ctx, "u1"))
	s.ErrorIs(s.admins.DeleteAdmin(ctx, "u1"), usecase.ErrRecordNotFound)
}
