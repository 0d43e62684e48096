package constants

// Page routes
const (
	PricingRoute = "/"
	AccountRoute = "/account"
	LoginRoute   = "/login"
	LogoutRoute  = "/logout"
)

// OAuth routes
const (
	OAuthBeginRoute    = "/auth/:provider"
	OAuthCallbackRoute = "/auth/:provider/callback"
	// OAuthPrefix is skipped by the user context middleware.
	OAuthPrefix = "/auth/"
)

// Billing routes
const (
	WebhookRoute      = "/webhook"
	APIPrefix         = "/api"
	CheckoutRoute     = "/create-checkout-session"
	PortalRoute       = "/create-portal-link"
	SubscriptionRoute = "/subscription"
	ProductsRoute     = "/products"
)

// Operational routes
const (
	MetricsRoute = "/metrics"
	DocsRoute    = "/docs/api/"
	HealthRoute  = "/healthz"
)
