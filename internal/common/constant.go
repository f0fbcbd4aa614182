// Package common contains shared constants and sentinel errors used across
// sessionkeeper components.
package common

// Cookie names shared by the server and the terminal client.
const (
	// AccessTokenCookieName carries the short-lived signed access token.
	AccessTokenCookieName = "accessToken"
	// TokenIDCookieName carries the opaque identifier of the stored refresh token.
	TokenIDCookieName = "tokenId"
)

// TokenIDSize is the number of random bytes behind a token identifier.
// The hex-encoded identifier is twice as long.
const TokenIDSize = 16
