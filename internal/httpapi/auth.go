package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const profileKey = "profile"

var (
	errMissingAuth = errors.New("missing authorization")
	errBadAuth     = errors.New("invalid authorization format")
	errBadToken    = errors.New("invalid token")
	errNoProfile   = errors.New("profile not found")
)

type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// Authenticator resolves bearer tokens to profiles
type Authenticator struct {
	secret         []byte
	reminderSecret string
	profiles       ProfileLookup
	logger         *zap.Logger
}

func NewAuthenticator(jwtSecret, reminderSecret string, profiles ProfileLookup, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		secret:         []byte(jwtSecret),
		reminderSecret: reminderSecret,
		profiles:       profiles,
		logger:         logger,
	}
}

// IssueToken signs an HS256 token whose subject is the profile id
func IssueToken(secret string, profileID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   profileID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// RequireProfile rejects requests without a valid token for a known profile
func (a *Authenticator) RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		profile, err := a.profileFromToken(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, errBadToken) && !errors.Is(err, errNoProfile) {
				a.logger.Error("Failed to resolve profile", zap.Error(err))
				writeError(c, err)
				c.Abort()
				return
			}
			abortUnauthorized(c, err)
			return
		}

		c.Set(profileKey, profile)
		c.Next()
	}
}

// RequireReminderTrigger accepts the shared dispatcher secret or an admin token
func (a *Authenticator) RequireReminderTrigger() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		if a.reminderSecret != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.reminderSecret)) == 1 {
			c.Next()
			return
		}

		profile, err := a.profileFromToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, errBadToken)
			return
		}
		if profile.Role != model.RoleAdmin {
			abortForbidden(c)
			return
		}

		c.Set(profileKey, profile)
		c.Next()
	}
}

func (a *Authenticator) profileFromToken(ctx context.Context, tokenStr string) (*model.Profile, error) {
	if len(a.secret) == 0 {
		return nil, errBadToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return a.secret, nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, errBadToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errBadToken
	}

	profile, err := a.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errNoProfile
	}
	return profile, nil
}

func bearerToken(c *gin.Context) (string, error) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", errMissingAuth
	}
	parts := strings.Fields(auth)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errBadAuth
	}
	return parts[1], nil
}

func currentProfile(c *gin.Context) *model.Profile {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	p, _ := v.(*model.Profile)
	return p
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: err.Error(), Code: "unauthorized"})
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "not allowed", Code: "forbidden"})
}
