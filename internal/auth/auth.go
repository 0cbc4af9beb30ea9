package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ISSUER   = "github.com/haguru/signup"
	AUDIENCE = "api." + ISSUER

	// PurposeSession marks a logged-in session token.
	PurposeSession = "SESSION"
	// PurposeCheckedID marks proof that an identifier passed the availability check.
	PurposeCheckedID = "CHECKED_ID"

	DefaultSessionTTL   = 15 * time.Minute
	DefaultCheckedIDTTL = 10 * time.Minute
)

var (
	ErrNilKey       = errors.New("signing key is nil")
	ErrWrongPurpose = errors.New("token issued for another purpose")
)

type CustomClaims struct {
	UserID string `json:"userid"`
	jwt.RegisteredClaims
}

// CreateToken signs an ES256 token for userID. The purpose is stored as the
// subject so a checked-id token can never pass as a session and vice versa.
func CreateToken(userID, purpose string, ttl time.Duration, privateKey *ecdsa.PrivateKey) (string, error) {
	if privateKey == nil {
		return "", ErrNilKey
	}

	now := time.Now()
	claims := CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    ISSUER,
			Subject:   purpose,
			Audience:  []string{AUDIENCE},
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signToken, err := token.SignedString(privateKey)
	if err != nil {
		return "", err
	}

	return signToken, nil
}

// VerifyToken parses tokenString and checks signature, expiry, issuer,
// audience and purpose.
func VerifyToken(tokenString, purpose string, publicKey *ecdsa.PublicKey) (*CustomClaims, error) {
	if publicKey == nil {
		return nil, ErrNilKey
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithIssuer(ISSUER),
		jwt.WithAudience(AUDIENCE),
	)
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token or claims")
	}
	if claims.Subject != purpose {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrWrongPurpose, claims.Subject, purpose)
	}

	return claims, nil
}
