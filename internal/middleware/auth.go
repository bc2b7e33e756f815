package middleware

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/proyecthub/proyecthub-api/internal/models"
)

const actorKey = "actor"

// TokenQueryParam carries the JWT on download links
const TokenQueryParam = "token"

// ClaimID is a user id claim. Tokens issued by older clients carry it as a
// string; anything that is not a positive integer reads as 0.
type ClaimID uint

func (id *ClaimID) UnmarshalJSON(data []byte) error {
	*id = 0

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch raw := v.(type) {
	case float64:
		if raw >= 1 && raw <= math.MaxUint32 && raw == math.Trunc(raw) {
			*id = ClaimID(raw)
		}
	case string:
		if parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32); err == nil {
			*id = ClaimID(parsed)
		}
	}
	return nil
}

// Claims represents the JWT claims structure
type Claims struct {
	UserID   ClaimID `json:"userId"`
	Username string  `json:"username"`
	Email    string  `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the identity passed to services
func (c *Claims) Actor() models.Actor {
	username := c.Username
	if username == "" {
		username = c.Subject
	}
	return models.Actor{
		UserID:   uint(c.UserID),
		Username: username,
		Email:    c.Email,
	}
}

// TokenValidator checks signature, algorithm, issuer, audience and expiry.
type TokenValidator struct {
	secret  []byte
	options []jwt.ParserOption
}

func NewTokenValidator(secret, issuer, audience string) *TokenValidator {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		options = append(options, jwt.WithAudience(audience))
	}
	return &TokenValidator{secret: []byte(secret), options: options}
}

// Validate parses and validates a JWT token string
func (v *TokenValidator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.options...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token has expired")
		}
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// Auth returns a middleware that validates the bearer token in the
// Authorization header
func Auth(validator *TokenValidator) gin.HandlerFunc {
	return authenticate(validator, false)
}

// DownloadAuth is Auth for file download links. Without an Authorization
// header it falls back to the token query param.
func DownloadAuth(validator *TokenValidator) gin.HandlerFunc {
	return authenticate(validator, true)
}

func authenticate(validator *TokenValidator, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""

		if authHeader == "" {
			if allowQuery {
				tokenString = c.Query(TokenQueryParam)
			}
			if tokenString == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Authorization header is required",
				})
				return
			}
		} else {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid authorization header format",
				})
				return
			}
			tokenString = strings.TrimSpace(parts[1])
		}

		claims, err := validator.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			return
		}

		actor := claims.Actor()
		c.Set(actorKey, actor)
		c.Set("userID", actor.UserID)
		c.Set("claims", claims)

		c.Next()
	}
}

// GetActor returns the caller identity. Requests that did not pass Auth
// get the zero Actor.
func GetActor(c *gin.Context) models.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}
	}
	actor, _ := value.(models.Actor)
	return actor
}
