package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/karchag/karchag-backend/consts"
)

var (
	ErrInvalidToken   = errors.New("Could not validate credentials")
	ErrWrongTokenType = errors.New("Invalid token type")
)

// Claims carried by both access and refresh tokens.
// Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
}

func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type TokenManager struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret, issuer, audience string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("auth.secret is not set")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.Errorf("token lifetimes must be positive [access: %s, refresh: %s]", accessTTL, refreshTTL)
	}

	return &TokenManager{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// AccessTTL in seconds, as reported to clients in expires_in.
func (tm *TokenManager) AccessTTL() int64 {
	return int64(tm.accessTTL.Seconds())
}

func (tm *TokenManager) issue(userID int64, username string, isAdmin bool, typ string, ttl time.Duration) (string, error) {
	now := tm.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:     typ,
		Username: username,
		IsAdmin:  isAdmin,
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	return s, errors.Wrapf(err, "sign %s token", typ)
}

func (tm *TokenManager) IssueAccess(userID int64, username string, isAdmin bool) (string, error) {
	return tm.issue(userID, username, isAdmin, consts.TOKEN_ACCESS, tm.accessTTL)
}

func (tm *TokenManager) IssuePair(userID int64, username string, isAdmin bool) (*TokenPair, error) {
	access, err := tm.IssueAccess(userID, username, isAdmin)
	if err != nil {
		return nil, err
	}
	refresh, err := tm.issue(userID, username, isAdmin, consts.TOKEN_REFRESH, tm.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    tm.AccessTTL(),
	}, nil
}

// Verify parses the token and checks signature, expiry, issuer, audience and type.
func (tm *TokenManager) Verify(token string, expectedType string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) {
			return tm.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	if claims.Type != expectedType {
		return nil, ErrWrongTokenType
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
