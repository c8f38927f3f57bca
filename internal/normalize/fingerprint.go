package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint identifies a listing across sources and runs. It ignores case
// and whitespace differences in title, company and location.
func Fingerprint(title, company, location string) string {
	key := func(s string) string { return strings.ToLower(Clean(s)) }
	sum := sha256.Sum256([]byte(key(title) + "|" + key(company) + "|" + key(location)))
	return hex.EncodeToString(sum[:8])
}
