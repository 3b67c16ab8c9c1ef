package main

// Connection authentication. Clients authenticate once per connection
// with "AUTH JWT <token>"; while auth is enabled, every other line is
// rejected until that succeeds.

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig configures server authentication.
type AuthConfig struct {
	// Enabled enables authentication. If false, all connections are trusted.
	Enabled bool

	// JWTSecret is the shared secret for HS256 JWT validation.
	JWTSecret string

	// Issuer is the expected "iss" claim in JWTs.
	Issuer string

	// Audience is the expected "aud" claim in JWTs (optional).
	Audience string

	// NameClaim is the JWT claim for user's name (default: "name").
	NameClaim string

	// EmailClaim is the JWT claim for user's email (default: "email").
	EmailClaim string
}

// signingKey is the jwt.Keyfunc for token parsing. Only HMAC methods
// are accepted; the shared secret is the key.
func (c *AuthConfig) signingKey(token *jwt.Token) (any, error) {
	if c.JWTSecret == "" {
		return nil, errors.New("no JWT secret configured")
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(c.JWTSecret), nil
}

// claimNames returns the identity claim keys, with defaults applied.
func (c *AuthConfig) claimNames() (name, email string) {
	name, email = c.NameClaim, c.EmailClaim
	if name == "" {
		name = "name"
	}
	if email == "" {
		email = "email"
	}
	return name, email
}

// Identity identifies an authenticated client.
type Identity struct {
	Name  string
	Email string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// ConnectionState tracks per-connection authentication state.
type ConnectionState struct {
	identity      *Identity
	authenticated bool
	tokenExpiry   time.Time
}

// IsAuthenticated returns true if the connection has been authenticated.
func (cs *ConnectionState) IsAuthenticated() bool {
	return cs.authenticated
}

// Identity returns the connection's identity, or nil if not authenticated.
func (cs *ConnectionState) Identity() *Identity {
	return cs.identity
}

// validateJWT checks the token's signature and registered claims and
// extracts the client identity and token expiry.
func (s *Server) validateJWT(tokenString string) (Identity, time.Time, error) {
	cfg := s.authConfig
	if cfg == nil {
		return Identity{}, time.Time{}, errors.New("authentication not configured")
	}

	token, err := jwt.Parse(tokenString, cfg.signingKey,
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return Identity{}, time.Time{}, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, time.Time{}, errors.New("invalid token claims")
	}

	if cfg.Issuer != "" {
		if issuer, _ := claims.GetIssuer(); issuer != cfg.Issuer {
			return Identity{}, time.Time{}, fmt.Errorf("invalid issuer: expected %s, got %s", cfg.Issuer, issuer)
		}
	}
	if cfg.Audience != "" && !hasAudience(claims, cfg.Audience) {
		return Identity{}, time.Time{}, fmt.Errorf("invalid audience: expected %s", cfg.Audience)
	}

	nameClaim, emailClaim := cfg.claimNames()
	id := Identity{
		Name:  stringClaim(claims, nameClaim),
		Email: stringClaim(claims, emailClaim),
	}
	if id.Name == "" && id.Email == "" {
		return Identity{}, time.Time{}, fmt.Errorf("token missing identity claims (%s or %s)", nameClaim, emailClaim)
	}

	var expiry time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiry = exp.Time
	}
	return id, expiry, nil
}

func hasAudience(claims jwt.MapClaims, want string) bool {
	audiences, _ := claims.GetAudience()
	for _, aud := range audiences {
		if aud == want {
			return true
		}
	}
	return false
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// parseAuthCommand splits an "AUTH <type> <credentials>" line. JWT is
// the only supported type.
func parseAuthCommand(line string) (authType, token string, err error) {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 || !strings.EqualFold(parts[0], "AUTH") {
		return "", "", errors.New("not an AUTH command")
	}
	if len(parts) < 3 {
		return "", "", errors.New("invalid AUTH command: expected AUTH <type> <credentials>")
	}

	authType = strings.ToUpper(parts[1])
	if authType != "JWT" {
		return "", "", fmt.Errorf("unsupported auth type: %s", authType)
	}
	return authType, parts[2], nil
}

// handleAuth processes an AUTH command and updates the connection
// state on success.
func (s *Server) handleAuth(line string, state *ConnectionState) Response {
	_, token, err := parseAuthCommand(line)
	if err != nil {
		return Response{Success: false, Type: "auth", Error: err.Error()}
	}

	id, expiry, err := s.validateJWT(token)
	if err != nil {
		return Response{Success: false, Type: "auth", Error: err.Error()}
	}

	state.identity = &id
	state.authenticated = true
	state.tokenExpiry = expiry

	ar := AuthResponse{Authenticated: true, Identity: id.String()}
	if !expiry.IsZero() {
		ar.ExpiresIn = int(time.Until(expiry).Seconds())
	}
	data, _ := json.Marshal(ar)
	return Response{Success: true, Type: "auth", Result: data}
}
