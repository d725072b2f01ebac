// Package jwt issues and validates the signed bearer tokens that carry a
// campus identity (subject and role) between requests.
//
// Validation never trusts a claim before the signature verified, and every
// failure is reported as one of [ErrMalformedToken], [ErrExpiredToken] or
// [ErrInvalidToken].
package jwt
