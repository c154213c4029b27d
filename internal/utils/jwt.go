package utils // package utils provides helper functions for tokens and key hashing

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// StaffToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp.  Staff tokens are short-lived, scoped to a single venue and
// sent in the Authorization header when calling protected endpoints.
type StaffToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewStaffToken builds and signs an HS256 JWT for a staff member.  It
// takes the signing secret, the staff user ID, the venue the token is
// scoped to, the staff role (OWNER, MANAGER, SERVER) and a TTL in minutes.
// The JWT includes the subject (sub), venue_id, role, expiration (exp) and
// issued at (iat) claims; JWTAuth middleware expects exactly this shape.
func NewStaffToken(secret string, userID, venueID uint64, role string, ttlMin int) (StaffToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"venue_id": venueID,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return StaffToken{}, err
	}
	return StaffToken{Token: signed, Exp: exp}, nil
}
