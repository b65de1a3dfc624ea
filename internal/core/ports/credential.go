package ports

// CredentialBinder attaches the bearer credential to every outgoing request.
// An empty token clears it.
type CredentialBinder interface {
	SetCredential(token string)
}
