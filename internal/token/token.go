// Package token decodes bearer token payloads for session scheduling.
//
// The decoder performs no signature verification. It exists so the client
// can read the expiry claim out of a token the server already vouched for;
// it is a scheduling convenience, not a security check.
package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Decode returns the claims carried by the token's payload segment, or nil
// if the token is malformed in any way. It never returns an error: callers
// treat an undecodable token as "no claims".
func Decode(tokenString string) jwt.MapClaims {
	if tokenString == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

// ExpiryMillis returns the token's expiration claim converted to
// milliseconds since epoch. The second return is false when the token is
// undecodable or carries no exp claim.
func ExpiryMillis(tokenString string) (int64, bool) {
	claims := Decode(tokenString)
	if claims == nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.Time.UnixMilli(), true
}
