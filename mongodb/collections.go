package mongodb

const (
	UsersCollection    = "chathub_users"    // User profiles, keyed by identity provider uid
	SessionsCollection = "chathub_sessions" // User login sessions (when stored in mongo)
	ChatbotsCollection = "chathub_chatbots" // Tenant chatbot configurations
	WebsitesCollection = "webvault_sites"   // WebVault websites and attached services
	AgentsCollection   = "chathub_agents"   // Tenant AI agent definitions
)
