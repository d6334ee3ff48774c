package core

import "time"

// FederatedCredential is a normalized, already-parsed identity assertion
// handed over by the upstream assertion parser after signature
// verification. By the time a credential reaches this package it is
// structurally trusted but has not been checked for audience, issuer or
// temporal validity.
type FederatedCredential struct {
	// ID is the assertion identifier.
	ID string `json:"id"`

	// Issuer is the URI of the asserting party.
	Issuer string `json:"issuer"`

	// Audience is the URI the assertion was scoped to.
	Audience string `json:"audience"`

	// AuthenticationMethod is the method the asserting party reports for
	// the underlying login (e.g. "urn:federation:authentication:windows").
	AuthenticationMethod string `json:"authentication_method,omitempty"`

	// NotBefore and NotOnOrAfter delimit the assertion's validity window.
	NotBefore    time.Time `json:"not_before"`
	NotOnOrAfter time.Time `json:"not_on_or_after"`

	// IssuedOn is when the asserting party claims to have issued the
	// assertion.
	IssuedOn time.Time `json:"issued_on"`

	// RetrievedOn is when this server received the assertion. All temporal
	// validation is anchored here, not on a live clock read.
	RetrievedOn time.Time `json:"retrieved_on"`

	// Attributes are the claims released with the assertion.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Valid reports whether the credential may be accepted for the given
// audience and issuer under the given clock-skew tolerance.
//
// Temporal checks are evaluated against RetrievedOn rather than time.Now:
// tolerance semantics must not change when validation runs long after
// receipt. Window bounds are inclusive and the tolerance is applied
// symmetrically and independently to each check. An assertion whose
// IssuedOn is more stale than the tolerance is rejected even while still
// inside its validity window, which blocks replay of old but unexpired
// assertions.
//
// Validation never mutates the credential and never fails with an error:
// missing fields simply fail their check.
func (c *FederatedCredential) Valid(expectedAudience, expectedIssuer string, tolerance time.Duration) bool {
	if c.Audience != expectedAudience {
		return false
	}
	if c.Issuer != expectedIssuer {
		return false
	}

	checkTime := c.RetrievedOn.UTC()

	if checkTime.Before(c.NotBefore.UTC().Add(-tolerance)) {
		return false
	}
	if checkTime.After(c.NotOnOrAfter.UTC().Add(tolerance)) {
		return false
	}
	if c.IssuedOn.UTC().Before(checkTime.Add(-tolerance)) {
		return false
	}
	return true
}
