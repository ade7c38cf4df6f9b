package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoMember = errors.New("token carries no member profile")

// AccessTokenPayload is what a caller supplies when minting a token.
type AccessTokenPayload struct {
	MemberProfileID int64
	Email           string
	JTI             string
}

// AccessTokenClaims is the member token issued by the SSO.
type AccessTokenClaims struct {
	MemberProfileID int64  `json:"member_profile_id"`
	Email           string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims checks in jwt.Parser.
func (c AccessTokenClaims) Validate() error {
	if c.MemberProfileID <= 0 {
		return ErrNoMember
	}
	return nil
}
