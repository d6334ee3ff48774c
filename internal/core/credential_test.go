package core

import (
	"testing"
	"time"
)

const (
	testAudience = "urn:federation:sso"
	testIssuer   = "http://adfs.example.com/adfs/services/trust"
)

// standardCredential returns a credential that passes every check: issued
// just now, retrieved a second later, valid for one hour.
func standardCredential(now time.Time) FederatedCredential {
	return FederatedCredential{
		ID:           "_6257b2bf-7361-4081-ae1f-ec58d4310f61",
		Issuer:       testIssuer,
		Audience:     testAudience,
		NotBefore:    now,
		NotOnOrAfter: now.Add(1 * time.Hour),
		IssuedOn:     now,
		RetrievedOn:  now.Add(1 * time.Second),
		Attributes: map[string]any{
			"upn": "jdoe@example.com",
		},
	}
}

func TestFederatedCredentialValid(t *testing.T) {
	now := time.Date(2024, 2, 26, 22, 51, 16, 0, time.UTC)
	tolerance := 2 * time.Second

	tests := []struct {
		name   string
		mutate func(c *FederatedCredential)
		want   bool
	}{
		{
			name:   "all good",
			mutate: func(c *FederatedCredential) {},
			want:   true,
		},
		{
			name: "wrong audience",
			mutate: func(c *FederatedCredential) {
				c.Audience = "urn:NotUs"
			},
			want: false,
		},
		{
			name: "wrong issuer",
			mutate: func(c *FederatedCredential) {
				c.Issuer = "urn:NotThem"
			},
			want: false,
		},
		{
			name: "future-dated window",
			mutate: func(c *FederatedCredential) {
				c.NotBefore = now.Add(24 * time.Hour)
				c.NotOnOrAfter = now.Add(25 * time.Hour)
				c.IssuedOn = now.Add(24 * time.Hour)
			},
			want: false,
		},
		{
			name: "expired window",
			mutate: func(c *FederatedCredential) {
				c.NotBefore = now.Add(-24 * time.Hour)
				c.NotOnOrAfter = now.Add(-23 * time.Hour)
				c.IssuedOn = now.Add(-24 * time.Hour)
			},
			want: false,
		},
		{
			name: "stale issued-on inside window",
			mutate: func(c *FederatedCredential) {
				// still well inside [NotBefore, NotOnOrAfter] but issued
				// 3s before a check time only 2s of tolerance allows
				c.NotBefore = now.Add(-1 * time.Hour)
				c.IssuedOn = now.Add(-3 * time.Second)
			},
			want: false,
		},
		{
			name: "check time exactly at not-before",
			mutate: func(c *FederatedCredential) {
				c.NotBefore = c.RetrievedOn
			},
			want: true,
		},
		{
			name: "check time exactly at not-on-or-after",
			mutate: func(c *FederatedCredential) {
				c.NotOnOrAfter = c.RetrievedOn
			},
			want: true,
		},
		{
			name: "not-before reachable only through tolerance",
			mutate: func(c *FederatedCredential) {
				c.NotBefore = c.RetrievedOn.Add(1 * time.Second)
				c.IssuedOn = c.RetrievedOn
			},
			want: true,
		},
		{
			name: "not-before beyond tolerance",
			mutate: func(c *FederatedCredential) {
				c.NotBefore = c.RetrievedOn.Add(3 * time.Second)
				c.IssuedOn = c.RetrievedOn
			},
			want: false,
		},
		{
			name: "missing timestamps",
			mutate: func(c *FederatedCredential) {
				c.NotBefore = time.Time{}
				c.NotOnOrAfter = time.Time{}
				c.IssuedOn = time.Time{}
			},
			want: false,
		},
		{
			name: "non-UTC timestamps are normalized",
			mutate: func(c *FederatedCredential) {
				loc := time.FixedZone("UTC+2", 2*60*60)
				c.NotBefore = c.NotBefore.In(loc)
				c.NotOnOrAfter = c.NotOnOrAfter.In(loc)
				c.IssuedOn = c.IssuedOn.In(loc)
				c.RetrievedOn = c.RetrievedOn.In(loc)
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := standardCredential(now)
			tt.mutate(&cred)
			if got := cred.Valid(testAudience, testIssuer, tolerance); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFederatedCredentialValidDoesNotMutate(t *testing.T) {
	now := time.Date(2024, 2, 26, 22, 51, 16, 0, time.UTC)
	cred := standardCredential(now)
	before := cred

	_ = cred.Valid(testAudience, testIssuer, 2*time.Second)
	_ = cred.Valid("urn:NotUs", "urn:NotThem", 0)

	if cred.ID != before.ID ||
		cred.Issuer != before.Issuer ||
		cred.Audience != before.Audience ||
		!cred.NotBefore.Equal(before.NotBefore) ||
		!cred.NotOnOrAfter.Equal(before.NotOnOrAfter) ||
		!cred.IssuedOn.Equal(before.IssuedOn) ||
		!cred.RetrievedOn.Equal(before.RetrievedOn) {
		t.Error("Valid() mutated the credential")
	}
}

func TestFederatedCredentialValidUsesRetrievalTime(t *testing.T) {
	// a credential retrieved inside its window stays valid no matter how
	// much wall-clock time passes before the check runs
	retrieved := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	cred := FederatedCredential{
		Issuer:       testIssuer,
		Audience:     testAudience,
		NotBefore:    retrieved.Add(-time.Minute),
		NotOnOrAfter: retrieved.Add(time.Hour),
		IssuedOn:     retrieved,
		RetrievedOn:  retrieved,
	}
	if !cred.Valid(testAudience, testIssuer, 2*time.Second) {
		t.Error("credential anchored years in the past should validate against its retrieval time")
	}
}
