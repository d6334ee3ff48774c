package core

// OAuth2 grant type values as specified in RFC 6749. These are used
// verbatim as configuration vocabulary, never computed.
//
// https://tools.ietf.org/html/rfc6749
const (
	GrantAuthorizationCode = "authorization_code"
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
	GrantRefreshToken      = "refresh_token"
)

// KnownGrantTypes lists every grant type this server understands.
var KnownGrantTypes = []string{
	GrantAuthorizationCode,
	GrantPassword,
	GrantClientCredentials,
	GrantRefreshToken,
}

// IsKnownGrantType reports whether v is part of the RFC 6749 vocabulary.
func IsKnownGrantType(v string) bool {
	for _, g := range KnownGrantTypes {
		if g == v {
			return true
		}
	}
	return false
}
