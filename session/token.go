package session

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// IsTokenExpired reports whether a JWT's exp claim is in the past.
// The token is decoded without signature verification - the client only needs
// to decide whether presenting it to the server is pointless. A malformed
// token or a missing exp claim counts as expired.
func IsTokenExpired(rawToken string) bool {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return true
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return true
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return true
	}

	return NowTimeFunc().Unix() >= int64(exp)
}
