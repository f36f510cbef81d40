package constants

const (
	AppUserService     = "user-service"
	AppCartService     = "cart-service"
	AppCheckoutService = "checkout-service"
	AppMainStorefront  = "storefront"
	AudienceStorefront = "storefront-customer"
)
