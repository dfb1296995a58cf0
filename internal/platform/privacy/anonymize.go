// Package privacy provides helpers for storing request fingerprints without
// keeping personal data.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
)

// AnonymizeIP drops the host-identifying portion of an address before it is
// stored. IPv4 loses its last octet (masked to /24); IPv6 keeps only the /48
// prefix. Unparseable input yields "invalid", empty input "unknown".
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	// /48 prefix = first 6 of the 16 IPv6 bytes
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}

// HashIP anonymizes then hashes an IP address for storage alongside consent
// grants. The truncation happens first so the stored hash cannot be reversed
// into a specific host by brute-forcing the last octet.
func HashIP(ip string) string {
	anon := AnonymizeIP(ip)
	sum := sha256.Sum256([]byte(anon))
	return hex.EncodeToString(sum[:])
}
