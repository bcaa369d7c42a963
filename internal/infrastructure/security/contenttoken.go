package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ContentTokenScope is the capability claim the content API expects on
// rectangle requests. The claim shape is fixed by the upstream contract.
const ContentTokenScope = "rectangles:read"

type contentClaims struct {
	Exp    int64  `json:"exp"`
	SiteID int    `json:"siteId"`
	Scope  string `json:"scope"`
}

// SignContentToken builds the short-lived bearer token for the content API:
// URL-safe base64 of the JSON claims, an HMAC-SHA256 signature over that
// encoded payload, and the two joined with a dot.
func SignContentToken(secret string, siteID int, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("content token secret is not configured")
	}

	payload, err := json.Marshal(contentClaims{
		Exp:    now.Add(ttl).Unix(),
		SiteID: siteID,
		Scope:  ContentTokenScope,
	})
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(encoded))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return encoded + "." + signature, nil
}
