// Package identity authenticates the two-member team and carries the
// session across requests. Passwords are bcrypt hashes; sessions are
// signed HS256 tokens held in a cookie.
package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kidandcat/vatrack/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "vatrack_session"

const sessionTTL = 30 * 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

// Account pairs a user with their password hash.
type Account struct {
	User         model.User
	PasswordHash string
}

type Service struct {
	secret   []byte
	accounts []Account
}

func New(secret string, accounts []Account) *Service {
	return &Service{secret: []byte(secret), accounts: accounts}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the credentials and mints a session token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(email, password string) (string, *model.User, error) {
	for _, a := range s.accounts {
		if a.User.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
			return "", nil, ErrInvalidCredentials
		}
		token, err := s.mintToken(a.User.ID)
		if err != nil {
			return "", nil, err
		}
		u := a.User
		return token, &u, nil
	}
	return "", nil, ErrInvalidCredentials
}

func (s *Service) mintToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

// UserForToken resolves a session token to its user, or nil when the
// token is missing, expired, or forged.
func (s *Service) UserForToken(tokenString string) *model.User {
	if tokenString == "" {
		return nil
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	id, _ := claims["user_id"].(string)
	return s.UserByID(id)
}

func (s *Service) UserByID(id string) *model.User {
	for _, a := range s.accounts {
		if a.User.ID == id {
			u := a.User
			return &u
		}
	}
	return nil
}

// Users lists the team, for assignee pickers.
func (s *Service) Users() []model.User {
	out := make([]model.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.User)
	}
	return out
}

// CurrentUser resolves the request's session cookie.
func (s *Service) CurrentUser(r *http.Request) *model.User {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	return s.UserForToken(cookie.Value)
}

func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
