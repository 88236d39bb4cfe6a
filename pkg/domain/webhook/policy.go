package webhook

import "time"

// Replay window defaults. Signed providers get the tighter window.
const (
	DefaultSignedMaxAge   = 300 * time.Second
	DefaultUnsignedMaxAge = 600 * time.Second
)

// SecretConfigKey is the integration config key holding the shared secret.
const SecretConfigKey = "webhookSecret"

// Policy is the verification policy for one provider.
// An empty SignatureHeader means no signature check is required; an empty
// TimestampHeader means no freshness check.
type Policy struct {
	Scheme          Scheme
	SignatureHeader string
	TimestampHeader string
	MaxAge          time.Duration
}

// Signed reports whether the policy requires a signature check.
func (p Policy) Signed() bool {
	return p.SignatureHeader != ""
}

// defaultPolicies keys verification policies by provider ID.
var defaultPolicies = map[string]Policy{
	"github": {
		Scheme:          SchemeGitHub,
		SignatureHeader: "X-Hub-Signature-256",
		MaxAge:          DefaultSignedMaxAge,
	},
	"slack": {
		Scheme:          SchemeSlack,
		SignatureHeader: "X-Slack-Signature",
		TimestampHeader: "X-Slack-Request-Timestamp",
		MaxAge:          DefaultSignedMaxAge,
	},
}

// genericPolicy applies to providers without a registered policy.
var genericPolicy = Policy{
	Scheme:          SchemeGeneric,
	SignatureHeader: "X-Webhook-Signature",
	TimestampHeader: "X-Webhook-Timestamp",
	MaxAge:          DefaultUnsignedMaxAge,
}

// Policies holds per-provider verification policies with a generic fallback.
type Policies struct {
	byProvider map[string]Policy
	fallback   Policy
}

// DefaultPolicies returns the built-in policy set.
func DefaultPolicies() *Policies {
	byProvider := make(map[string]Policy, len(defaultPolicies))
	for id, p := range defaultPolicies {
		byProvider[id] = p
	}
	return &Policies{byProvider: byProvider, fallback: genericPolicy}
}

// Register sets the policy for a provider, replacing any existing one.
func (ps *Policies) Register(providerID string, p Policy) {
	if p.MaxAge <= 0 {
		if p.Signed() {
			p.MaxAge = DefaultSignedMaxAge
		} else {
			p.MaxAge = DefaultUnsignedMaxAge
		}
	}
	ps.byProvider[providerID] = p
}

// For returns the policy for a provider, falling back to the generic policy.
func (ps *Policies) For(providerID string) Policy {
	if p, ok := ps.byProvider[providerID]; ok {
		return p
	}
	return ps.fallback
}
