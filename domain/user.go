package domain

import "time"

// ApprovalStatus defines the possible approval states of a user profile.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// UserProfile is the persisted profile document for a ChatHub account,
// keyed by the identity provider's uid. The identity provider owns
// credentials; this document only carries authorization and policy flags.
type UserProfile struct {
	UID               string         `bson:"_id"`
	Email             string         `bson:"email"`
	IsAdmin           bool           `bson:"is_admin"`
	IsReadOnly        bool           `bson:"is_read_only"`
	EmailVerified     bool           `bson:"email_verified"`
	PhoneVerified     bool           `bson:"phone_verified"`
	TwoFactorEnabled  bool           `bson:"two_factor_enabled"`
	TwoFactorVerified bool           `bson:"two_factor_verified"`
	ApprovalStatus    ApprovalStatus `bson:"approval_status"`
	CreatedAt         time.Time      `bson:"created_at"`
	UpdatedAt         time.Time      `bson:"updated_at"`
}

// Approved reports whether the profile may perform tenant-scoped operations.
func (p *UserProfile) Approved() bool {
	return p.ApprovalStatus == ApprovalStatusApproved
}
