// Package webhook contains inbound webhook verification primitives:
// signature schemes, per-provider policies, and the delivery record.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Scheme identifies a provider signature scheme.
type Scheme string

const (
	// SchemeGeneric signs the raw body: hex(HMAC-SHA256(body, secret)).
	SchemeGeneric Scheme = "generic"

	// SchemeGitHub prefixes the generic digest with "sha256=", the format
	// used by GitHub, Gitea, and most compatible providers.
	SchemeGitHub Scheme = "github"

	// SchemeSlack signs the base string "v0:<timestamp>:<body>" and
	// prefixes the digest with "v0=".
	SchemeSlack Scheme = "slack"
)

// SignatureStrategy computes the expected signature for a payload.
// Strategies are pure: deterministic, no I/O, no state.
type SignatureStrategy func(rawBody []byte, secret, timestamp string) string

// Strategies maps each scheme to its strategy. Registering a new provider
// scheme means adding an entry here, not growing a switch.
var Strategies = map[Scheme]SignatureStrategy{
	SchemeGeneric: func(rawBody []byte, secret, _ string) string {
		return hexHMAC(rawBody, secret)
	},
	SchemeGitHub: func(rawBody []byte, secret, _ string) string {
		return "sha256=" + hexHMAC(rawBody, secret)
	},
	SchemeSlack: func(rawBody []byte, secret, timestamp string) string {
		base := make([]byte, 0, len("v0:")+len(timestamp)+1+len(rawBody))
		base = append(base, "v0:"...)
		base = append(base, timestamp...)
		base = append(base, ':')
		base = append(base, rawBody...)
		return "v0=" + hexHMAC(base, secret)
	},
}

// Sign computes the expected signature for the scheme. Unknown schemes fall
// back to the generic strategy.
func Sign(scheme Scheme, rawBody []byte, secret, timestamp string) string {
	strategy, ok := Strategies[scheme]
	if !ok {
		strategy = Strategies[SchemeGeneric]
	}
	return strategy(rawBody, secret, timestamp)
}

// VerifySignature reports whether received matches the expected signature
// for the scheme. The comparison is constant time; hmac.Equal rejects
// length mismatches without leaking where the sequences differ.
func VerifySignature(scheme Scheme, rawBody []byte, secret, timestamp, received string) bool {
	expected := Sign(scheme, rawBody, secret, timestamp)
	return hmac.Equal([]byte(received), []byte(expected))
}

func hexHMAC(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
