package providers

// TokenVerifier checks a bearer token and returns the user it was issued to
type TokenVerifier interface {
	Verify(token string) (string, error)
}
