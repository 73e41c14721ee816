package identity

// AuthError is a sign-in or registration failure carrying the provider-style
// error code. Each code maps to its own user-facing message so the client can
// tell, say, a duplicate registration from a wrong password.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Code + ": " + e.Message }

// Provider error taxonomy.
var (
	ErrInvalidEmail      = &AuthError{Code: "auth/invalid-email", Message: "The email address is badly formatted."}
	ErrUserNotFound      = &AuthError{Code: "auth/user-not-found", Message: "No account exists for this email."}
	ErrWrongPassword     = &AuthError{Code: "auth/wrong-password", Message: "The password is incorrect."}
	ErrEmailAlreadyInUse = &AuthError{Code: "auth/email-already-in-use", Message: "An account already exists for this email."}
	ErrWeakPassword      = &AuthError{Code: "auth/weak-password", Message: "The password must be at least 6 characters."}
	ErrInvalidCredential = &AuthError{Code: "auth/invalid-credential", Message: "The supplied credential is invalid."}
)
