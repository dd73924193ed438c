package entity

import (
	"time"
)

// Address is a shipping address captured on users and snapshotted onto orders.
type Address struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.Pincode == ""
}

// ContractorProfile holds the contractor-only fields of an Account.
type ContractorProfile struct {
	JobTypes   []string `json:"jobTypes"`
	Experience int      `json:"experience"`
	City       string   `json:"city"`
	Bio        string   `json:"bio"`
	Available  bool     `json:"available"`
	Verified   bool     `json:"verified"`
}

// StoreProfile holds the store-only fields of an Account.
type StoreProfile struct {
	StoreName   string   `json:"storeName"`
	GSTIN       string   `json:"gstin"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Documents   []string `json:"documents"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
}

// Account is the aggregate root for every role. Exactly one of the role
// specific profiles is set, matching Role. Password holds a bcrypt hash.
type Account struct {
	ID              string             `json:"id"`
	Role            Role               `json:"role"`
	Email           string             `json:"email"`
	Password        string             `json:"-"`
	Name            string             `json:"name"`
	Phone           string             `json:"phone"`
	AvatarURL       string             `json:"avatarUrl"`
	Blocked         bool               `json:"blocked"`
	ApprovalStatus  ApprovalStatus     `json:"approvalStatus"`
	ShippingAddress *Address           `json:"shippingAddress,omitempty"`
	Contractor      *ContractorProfile `json:"contractor,omitempty"`
	Store           *StoreProfile      `json:"store,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// NeedsApproval reports whether login is gated on ApprovalStatus.
func (a *Account) NeedsApproval() bool {
	return a.Role == RoleContractor || a.Role == RoleStore
}

func (a *Account) Approved() bool {
	return !a.NeedsApproval() || a.ApprovalStatus == ApprovalApproved
}

// DisplayName prefers the store name for stores.
func (a *Account) DisplayName() string {
	if a.Store != nil && a.Store.StoreName != "" {
		return a.Store.StoreName
	}
	return a.Name
}

// Project is a contractor portfolio entry.
type Project struct {
	ID           string     `json:"id"`
	ContractorID string     `json:"contractorId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	Images       []string   `json:"images"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// JobType is a trade a contractor can offer.
type JobType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
