package auth

// Identity is the verified acting identity attached to a request or a
// real-time connection for its lifetime.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
