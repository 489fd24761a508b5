package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/domains"
)

var (
	ErrTokenMissing = errors.New("authorization token required")
	ErrTokenClaims  = errors.New("can't extract claims from jwt token")
	ErrTokenInvalid = errors.New("jwt token not valid")
	ErrTokenDomain  = errors.New("token not valid for this domain")
)

// Session is what a valid dashboard token grants.
type Session struct {
	Domain string
	Owner  string
}

func (s *Session) Can(domain string) bool {
	return s.Domain == domains.Normalize(domain)
}

func (api *API) NewToken(domain, owner string) (string, time.Time, error) {
	expiresAt := time.Now().Add(api.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"domain": domains.Normalize(domain),
		"owner":  owner,
		"exp":    expiresAt.Unix(),
	})

	signed, err := token.SignedString(api.Secret)
	if err != nil {
		return "", expiresAt, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses the request token, expired tokens are rejected by the
// claims validation of the jwt package.
func (api *API) ValidateToken(r *http.Request) (*Session, error) {
	tokenString := reqToken(r)
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return api.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenClaims
	} else if !token.Valid {
		return nil, ErrTokenInvalid
	}

	session := &Session{}
	if session.Domain, ok = claims["domain"].(string); !ok || session.Domain == "" {
		return nil, ErrTokenClaims
	} else if session.Owner, ok = claims["owner"].(string); !ok {
		return nil, ErrTokenClaims
	}

	return session, nil
}

// Authenticate replies with 401 and returns nil unless the request carries a
// valid dashboard token.
func (api *API) Authenticate(w http.ResponseWriter, r *http.Request) *Session {
	session, err := api.ValidateToken(r)
	if err != nil {
		log.Debug("token validation failed for %s: %v", clientIP(r), err)
		ERROR(w, http.StatusUnauthorized, err)
		return nil
	}
	return session
}

// authorize is Authenticate plus a check on the domain the request is about.
func (api *API) authorize(w http.ResponseWriter, r *http.Request, domain string) *Session {
	session := api.Authenticate(w, r)
	if session == nil {
		return nil
	} else if !session.Can(domain) {
		log.Warning("%s tried to manage %s with a token for %s", session.Owner, domain, session.Domain)
		ERROR(w, http.StatusForbidden, ErrTokenDomain)
		return nil
	}
	return session
}
