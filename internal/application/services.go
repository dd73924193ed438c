package application

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/internal/infrastructure/redisstore"
	"github.com/oksasatya/servicemart/pkg/helpers"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
)

// Deps is everything the services need. Search, Events and Files may be nil
// when the matching backend is not configured.
type Deps struct {
	Repos     repo.Set
	Pending   *redisstore.RegistrationStore
	Sessions  *redisstore.SessionStore
	JWT       *helpers.JWTManager
	Mail      gateway.MailQueue
	Files     gateway.FileStore
	Search    gateway.ProductSearch
	Events    gateway.OrderEvents
	Payments  gateway.PaymentGateway
	Brand     mailtpl.Brand
	ClientURL string
	Logger    logrus.FieldLogger
}

type Services struct {
	Auth         *AuthService
	Accounts     *AccountService
	Contractors  *ContractorService
	Interests    *InterestService
	Catalog      *CatalogService
	Stores       *StoreService
	Carts        *CartService
	Orders       *OrderService
	Payments     *PaymentService
	Reviews      *ReviewService
	Testimonials *TestimonialService
}

func NewServices(d Deps) *Services {
	r := d.Repos
	return &Services{
		Auth: &AuthService{
			Accounts: r.Accounts, Pending: d.Pending, Sessions: d.Sessions, JWT: d.JWT,
			Mail: d.Mail, Files: d.Files, Brand: d.Brand, Logger: d.Logger,
		},
		Accounts: &AccountService{Accounts: r.Accounts, Files: d.Files, Logger: d.Logger},
		Contractors: &ContractorService{
			Accounts: r.Accounts, Projects: r.Projects, JobTypes: r.JobTypes, Files: d.Files, Logger: d.Logger,
		},
		Interests: &InterestService{
			Accounts: r.Accounts, Interests: r.Interests, Mail: d.Mail, Brand: d.Brand, Logger: d.Logger,
		},
		Catalog: &CatalogService{Products: r.Products, Search: d.Search, Logger: d.Logger},
		Stores:  &StoreService{Products: r.Products, Search: d.Search, Files: d.Files, Logger: d.Logger},
		Carts:   &CartService{Carts: r.Carts, Products: r.Products, Accounts: r.Accounts, Logger: d.Logger},
		Orders: &OrderService{
			Orders: r.Orders, Carts: r.Carts, Accounts: r.Accounts, Events: d.Events,
			Mail: d.Mail, Brand: d.Brand, Logger: d.Logger,
		},
		Payments: &PaymentService{
			Orders: r.Orders, Accounts: r.Accounts, Gateway: d.Payments, Events: d.Events,
			ClientURL: d.ClientURL, Logger: d.Logger,
		},
		Reviews:      &ReviewService{Reviews: r.Reviews, Accounts: r.Accounts, Logger: d.Logger},
		Testimonials: &TestimonialService{Testimonials: r.Testimonials, Accounts: r.Accounts, Logger: d.Logger},
	}
}
