package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/servicemart/config"
	"github.com/oksasatya/servicemart/internal/domain/entity"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	pginfra "github.com/oksasatya/servicemart/internal/infrastructure/postgres"
	"github.com/oksasatya/servicemart/pkg/helpers"
)

var jobTypes = []string{"Plumbing", "Electrical", "Carpentry", "Painting", "Masonry", "Tiling", "Roofing", "Welding"}

// With -approve the command only flips an account's approval status.
func main() {
	approveRole := flag.String("approve-role", "", "role of the account to approve (contractor or store)")
	approveEmail := flag.String("approve", "", "email of the account to approve")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repos := pginfra.NewSet(pool)

	if *approveEmail != "" {
		role := entity.Role(*approveRole)
		if role != entity.RoleContractor && role != entity.RoleStore {
			log.Fatalf("-approve-role must be contractor or store")
		}
		if err := repos.Accounts.SetApproval(ctx, role, *approveEmail, entity.ApprovalApproved); err != nil {
			log.Fatalf("approve %s %s: %v", role, *approveEmail, err)
		}
		fmt.Printf("approved %s %s\n", role, *approveEmail)
		return
	}

	if err := seed(ctx, repos); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

// seed fills an empty database with job types, one demo account per role and
// a few products. Running it again is harmless.
func seed(ctx context.Context, repos repo.Set) error {
	for _, name := range jobTypes {
		if _, err := repos.JobTypes.Upsert(ctx, name); err != nil {
			return fmt.Errorf("job type %s: %w", name, err)
		}
	}
	fmt.Printf("job types ensured: %d\n", len(jobTypes))

	const password = "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}

	accounts := []*entity.Account{
		{Role: entity.RoleUser, Email: "user@servicemart.dev", Name: "Demo User", Password: hash,
			ApprovalStatus: entity.ApprovalApproved,
			ShippingAddress: &entity.Address{FullName: "Demo User", Street: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"}},
		{Role: entity.RoleContractor, Email: "contractor@servicemart.dev", Name: "Demo Contractor", Password: hash,
			ApprovalStatus: entity.ApprovalApproved,
			Contractor:     &entity.ContractorProfile{JobTypes: []string{"Plumbing", "Tiling"}, Experience: 6, City: "Pune", Available: true}},
		{Role: entity.RoleStore, Email: "store@servicemart.dev", Name: "Demo Owner", Password: hash,
			ApprovalStatus: entity.ApprovalApproved,
			Store:          &entity.StoreProfile{StoreName: "Demo Hardware", City: "Pune", Address: "4 Market Yard"}},
	}
	var store *entity.Account
	for _, a := range accounts {
		err := repos.Accounts.Create(ctx, a)
		if errors.Is(err, repo.ErrDuplicate) {
			existing, gerr := repos.Accounts.GetByEmail(ctx, a.Role, a.Email)
			if gerr != nil {
				return gerr
			}
			a = existing
		} else if err != nil {
			return fmt.Errorf("account %s: %w", a.Email, err)
		}
		if a.Role == entity.RoleStore {
			store = a
		}
		fmt.Printf("seeded %s: id=%s email=%s password=%s\n", a.Role, a.ID, a.Email, password)
	}

	existing, total, err := repos.Products.List(ctx, repo.ProductFilter{StoreID: store.ID, Page: 1, Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 || len(existing) > 0 {
		fmt.Println("products already seeded")
		return nil
	}
	products := []*entity.Product{
		{Name: "PVC Pipe 1in", Category: "Plumbing", Unit: "piece", BasePrice: decimal.NewFromInt(120), Stock: 500,
			BulkPricing: []entity.BulkTier{{MinQuantity: 10, Price: decimal.NewFromInt(110)}, {MinQuantity: 50, Price: decimal.NewFromInt(95)}}},
		{Name: "Cement 50kg", Category: "Masonry", Grade: "OPC 53", Unit: "bag", BasePrice: decimal.NewFromInt(420), Stock: 200,
			BulkPricing: []entity.BulkTier{{MinQuantity: 20, Price: decimal.NewFromInt(400)}}},
		{Name: "Wall Putty 20kg", Category: "Painting", Unit: "bag", BasePrice: decimal.NewFromInt(780), Stock: 60},
	}
	for _, p := range products {
		p.StoreID = store.ID
		if err := repos.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("product %s: %w", p.Name, err)
		}
	}
	fmt.Printf("seeded %d products for %s\n", len(products), store.Email)
	return nil
}
