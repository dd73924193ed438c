// Package memory implements every repository interface on in-process maps.
// It backs the test suites and STORAGE_DRIVER=memory development runs.
package memory

import (
	"slices"
	"sync"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

type cartKey struct{ userID, storeID string }

// Store holds all collections behind one mutex so multi-collection
// operations such as placing orders are atomic.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*entity.Account
	projects     map[string]*entity.Project
	jobTypes     map[string]entity.JobType
	products     map[string]*entity.Product
	carts        map[cartKey]*entity.Cart
	orders       map[string]*entity.Order
	interests    map[string]*entity.Interest
	reviews      map[string]*entity.Review
	testimonials map[string]*entity.Testimonial
}

func New() *Store {
	return &Store{
		accounts:     map[string]*entity.Account{},
		projects:     map[string]*entity.Project{},
		jobTypes:     map[string]entity.JobType{},
		products:     map[string]*entity.Product{},
		carts:        map[cartKey]*entity.Cart{},
		orders:       map[string]*entity.Order{},
		interests:    map[string]*entity.Interest{},
		reviews:      map[string]*entity.Review{},
		testimonials: map[string]*entity.Testimonial{},
	}
}

func (s *Store) Accounts() *AccountRepository         { return &AccountRepository{s} }
func (s *Store) Projects() *ProjectRepository         { return &ProjectRepository{s} }
func (s *Store) JobTypes() *JobTypeRepository         { return &JobTypeRepository{s} }
func (s *Store) Products() *ProductRepository         { return &ProductRepository{s} }
func (s *Store) Carts() *CartRepository               { return &CartRepository{s} }
func (s *Store) Orders() *OrderRepository             { return &OrderRepository{s} }
func (s *Store) Interests() *InterestRepository       { return &InterestRepository{s} }
func (s *Store) Reviews() *ReviewRepository           { return &ReviewRepository{s} }
func (s *Store) Testimonials() *TestimonialRepository { return &TestimonialRepository{s} }

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

func cloneAccount(a *entity.Account) *entity.Account {
	c := *a
	if a.ShippingAddress != nil {
		addr := *a.ShippingAddress
		c.ShippingAddress = &addr
	}
	if a.Contractor != nil {
		p := *a.Contractor
		p.JobTypes = slices.Clone(a.Contractor.JobTypes)
		c.Contractor = &p
	}
	if a.Store != nil {
		p := *a.Store
		p.Documents = slices.Clone(a.Store.Documents)
		c.Store = &p
	}
	return &c
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	c.BulkPricing = slices.Clone(p.BulkPricing)
	c.Images = slices.Clone(p.Images)
	return &c
}

func cloneCart(cart *entity.Cart) *entity.Cart {
	c := *cart
	c.Items = slices.Clone(cart.Items)
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}

func cloneProject(p *entity.Project) *entity.Project {
	c := *p
	c.Images = slices.Clone(p.Images)
	return &c
}

// Set exposes every repository backed by this store.
func (s *Store) Set() repository.Set {
	return repository.Set{
		Accounts:     s.Accounts(),
		Projects:     s.Projects(),
		JobTypes:     s.JobTypes(),
		Products:     s.Products(),
		Carts:        s.Carts(),
		Orders:       s.Orders(),
		Interests:    s.Interests(),
		Reviews:      s.Reviews(),
		Testimonials: s.Testimonials(),
	}
}
