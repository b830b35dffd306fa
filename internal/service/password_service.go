package service

// PasswordService hashes and verifies local account passwords.
type PasswordService interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A nil hash never matches.
	Verify(password string, hash *string) bool
	// DummyVerify burns one comparison so unknown identifiers cost the same
	// as wrong passwords.
	DummyVerify(password string)
}
