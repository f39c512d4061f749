package errors

// Error codes attached to request outcomes and log lines.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"      // sign-in required
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"      // email taken at registration
	AuthCSRFInvalid        = "AUTH_CSRF_INVALID"      // missing or stale form token
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"     // password policy not met
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH" // confirmation differs

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationTooLong      = "VALIDATION_TOO_LONG"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND"

	// ==================== Wishlist (WISHLIST_) ====================
	WishlistOutOfStock = "WISHLIST_OUT_OF_STOCK"

	// ==================== Address (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE"
)
