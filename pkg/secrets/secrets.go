// Package secrets generates random secrets for local tooling and deployment
// bootstrap.
package secrets

import (
	"crypto/rand"
	"encoding/base64"

	dErrors "privacygate/pkg/domain-errors"
)

// Generate creates a cryptographically secure random secret.
// Returns a base64-encoded string suitable for signing keys and API tokens.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
