package session

import (
	"fmt"

	"github.com/desertthunder/ytpm/internal/models"
	"github.com/desertthunder/ytpm/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

type idTokenClaims struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// DecodeProfile reads the claims of a JWT credential without verifying its signature.
func DecodeProfile(cred models.Credential) (models.Profile, error) {
	var claims idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(cred.String(), &claims); err != nil {
		return models.Profile{}, fmt.Errorf("%w: %v", shared.ErrInvalidCredentials, err)
	}

	profile := models.Profile{
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		EmailVerified: claims.EmailVerified,
		Audience:      claims.Audience,
	}
	if claims.ExpiresAt != nil {
		profile.ExpiresAt = claims.ExpiresAt.Time
	}
	return profile, nil
}
