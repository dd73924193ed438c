package entity

import "time"

// Interest is a user's request sent to a contractor.
type Interest struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	ContractorID     string    `json:"contractorId"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	JobType          string    `json:"jobType"`
	PreferredDate    string    `json:"preferredDate"`
	Message          string    `json:"message"`
	SeenByContractor bool      `json:"seenByContractor"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Review struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Testimonial struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}
