package domain

// Credential is the API key authorizing requests to the completion service.
type Credential string

// String masks the secret so it never ends up in logs by accident.
func (c Credential) String() string {
	if len(c) <= 4 {
		return "****"
	}
	return "****" + string(c[len(c)-4:])
}

// Reveal returns the raw secret for the Authorization header.
func (c Credential) Reveal() string {
	return string(c)
}
