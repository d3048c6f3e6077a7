package domain

import "time"

// Chatbot is a tenant-owned chatbot configuration document.
type Chatbot struct {
	ID           string    `bson:"_id" json:"id"`
	OwnerUID     string    `bson:"owner_uid" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Model        string    `bson:"model" json:"model"`
	SystemPrompt string    `bson:"system_prompt,omitempty" json:"systemPrompt,omitempty"`
	Temperature  float64   `bson:"temperature" json:"temperature"`
	Enabled      bool      `bson:"enabled" json:"enabled"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// WebsiteStatus tracks the provisioning state of a WebVault website.
type WebsiteStatus string

const (
	WebsiteStatusProvisioning WebsiteStatus = "provisioning"
	WebsiteStatusActive       WebsiteStatus = "active"
	WebsiteStatusSuspended    WebsiteStatus = "suspended"
)

// Website is a WebVault-managed website owned by a tenant.
type Website struct {
	ID        string           `bson:"_id" json:"id"`
	OwnerUID  string           `bson:"owner_uid" json:"-"`
	Domain    string           `bson:"domain" json:"domain"`
	Status    WebsiteStatus    `bson:"status" json:"status"`
	Services  []WebsiteService `bson:"services,omitempty" json:"services,omitempty"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updatedAt"`
}

// WebsiteService is a managed service attached to a website (hosting, DNS,
// certificates and the like).
type WebsiteService struct {
	Name      string    `bson:"name" json:"name"`
	Kind      string    `bson:"kind" json:"kind"`
	Enabled   bool      `bson:"enabled" json:"enabled"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Agent is a tenant-owned AI agent definition.
type Agent struct {
	ID           string    `bson:"_id" json:"id"`
	OwnerUID     string    `bson:"owner_uid" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role,omitempty" json:"role,omitempty"`
	Instructions string    `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Enabled      bool      `bson:"enabled" json:"enabled"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}
