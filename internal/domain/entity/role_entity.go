package entity

// Role discriminates the three account variants stored in the accounts table.
type Role string

const (
	RoleUser       Role = "user"
	RoleContractor Role = "contractor"
	RoleStore      Role = "store"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleContractor, RoleStore:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ApprovalStatus gates contractor and store logins.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)
