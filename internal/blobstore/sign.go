package blobstore

import (
	"crypto/sha1"
	"encoding/base64"
	"strings"
)

// SignedDeliveryURL inserts a delivery signature into an upload URL so the
// origin accepts it when plain URLs are rejected (strict-asset accounts).
// The signature is the URL-safe base64 of the SHA-1 over the path after
// "/upload/" concatenated with the API secret, truncated to 8 characters and
// wrapped in "s--...--". URLs without an "/upload/" segment are returned
// unchanged.
func (c *Client) SignedDeliveryURL(rawURL string) string {
	const marker = "/upload/"

	idx := strings.Index(rawURL, marker)
	if idx < 0 {
		return rawURL
	}

	rest := rawURL[idx+len(marker):]
	if rest == "" || strings.HasPrefix(rest, "s--") {
		return rawURL // nothing to sign, or already signed
	}

	digest := sha1.Sum([]byte(rest + c.config.APISecret))
	sig := base64.RawURLEncoding.EncodeToString(digest[:])[:8]

	return rawURL[:idx+len(marker)] + "s--" + sig + "--/" + rest
}
