package apiclient

import "net/url"

const (
	EndpointLogin       = "/auth/login"
	EndpointSignup      = "/auth/signup"
	EndpointVerifyOTP   = "/auth/verifyOtp"
	EndpointLogout      = "/auth/logout"
	EndpointProfile     = "/users/profile"
	EndpointCart        = "/users/cart"
	EndpointProducts    = "/category/products"
	EndpointSuggestions = "/category/products/search"
)

// CartItemEndpoint addresses one product line of the cart.
func CartItemEndpoint(productID string) string {
	return EndpointCart + "/" + url.PathEscape(productID)
}
