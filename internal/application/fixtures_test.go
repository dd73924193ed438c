package application

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	"github.com/oksasatya/servicemart/internal/infrastructure/memory"
	"github.com/oksasatya/servicemart/internal/infrastructure/redisstore"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/mailer"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
)

type fakeMail struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (m *fakeMail) Enqueue(_ context.Context, job mailer.EmailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *fakeMail) last(t *testing.T) mailer.EmailJob {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.jobs)
	return m.jobs[len(m.jobs)-1]
}

type fakeFiles struct {
	uploads []string
}

func (f *fakeFiles) Upload(_ context.Context, folder, owner, filename, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	url := "https://files.test/" + folder + "/" + owner + "/" + filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (e *fakeEvents) Publish(_ context.Context, event string, o *entity.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event+":"+o.StoreID)
}

type fakeSearch struct {
	ids     []string
	err     error
	indexed []string
}

func (s *fakeSearch) Index(_ context.Context, p *entity.Product) error {
	s.indexed = append(s.indexed, p.ID)
	return nil
}
func (s *fakeSearch) Delete(context.Context, string) error { return nil }
func (s *fakeSearch) Search(context.Context, string, int) ([]string, error) {
	return s.ids, s.err
}

type fakeGateway struct {
	req     gateway.CheckoutRequest
	paid    bool
	checked int
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req gateway.CheckoutRequest) (gateway.CheckoutSession, error) {
	g.req = req
	return gateway.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
}

func (g *fakeGateway) SessionPaid(context.Context, string) (bool, error) {
	g.checked++
	return g.paid, nil
}

type env struct {
	ctx    context.Context
	store  *memory.Store
	mr     *miniredis.Miniredis
	mail   *fakeMail
	files  *fakeFiles
	events *fakeEvents
	search *fakeSearch
	pay    *fakeGateway
	svc    *Services
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	logger, _ := test.NewNullLogger()

	e := &env{
		ctx:    context.Background(),
		store:  memory.New(),
		mr:     mr,
		mail:   &fakeMail{},
		files:  &fakeFiles{},
		events: &fakeEvents{},
		search: &fakeSearch{},
		pay:    &fakeGateway{},
	}
	e.svc = NewServices(Deps{
		Repos:     e.store.Set(),
		Pending:   redisstore.NewRegistrationStore(rdb, 5*time.Minute, 30*time.Second),
		Sessions:  redisstore.NewSessionStore(rdb),
		JWT:       helpers.NewJWTManager("test-secret", time.Hour),
		Mail:      e.mail,
		Files:     e.files,
		Search:    e.search,
		Events:    e.events,
		Payments:  e.pay,
		Brand:     mailtpl.Brand{AppName: "ServiceMart", ClientURL: "https://shop.test"},
		ClientURL: "https://shop.test/",
		Logger:    logger,
	})
	return e
}

func (e *env) account(t *testing.T, role entity.Role, email string, status entity.ApprovalStatus) *entity.Account {
	t.Helper()
	hash, err := helpers.HashPassword("password123")
	require.NoError(t, err)
	a := &entity.Account{Role: role, Email: email, Password: hash, Name: "Acct " + email, ApprovalStatus: status}
	switch role {
	case entity.RoleContractor:
		a.Contractor = &entity.ContractorProfile{JobTypes: []string{"Plumbing"}, City: "Pune", Available: true}
	case entity.RoleStore:
		a.Store = &entity.StoreProfile{StoreName: "Store " + email}
	case entity.RoleUser:
		a.ShippingAddress = &entity.Address{FullName: "Ann", Street: "1 Main", City: "Pune", Pincode: "411001"}
	}
	require.NoError(t, e.store.Accounts().Create(e.ctx, a))
	return a
}

func (e *env) product(t *testing.T, storeID string, price int64, stock int, tiers ...entity.BulkTier) *entity.Product {
	t.Helper()
	p := &entity.Product{
		StoreID:     storeID,
		Name:        "Product",
		Category:    "Cement",
		BasePrice:   decimal.NewFromInt(price),
		Stock:       stock,
		BulkPricing: tiers,
	}
	require.NoError(t, e.store.Products().Create(e.ctx, p))
	return p
}

func (e *env) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := e.store.Products().GetByID(e.ctx, id)
	require.NoError(t, err)
	return p.Stock
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func upload(name string) Upload {
	return Upload{Filename: name, ContentType: "application/pdf", Size: 4, Body: bytes.NewReader([]byte("%PDF"))}
}
