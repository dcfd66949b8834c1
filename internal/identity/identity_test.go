package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kidandcat/vatrack/internal/model"
)

func testService(t *testing.T) *Service {
	t.Helper()
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	return New("test-secret", []Account{
		{
			User:         model.User{ID: "admin", Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin},
			PasswordHash: hash,
		},
		{
			User:         model.User{ID: "va", Name: "Assistant", Email: "va@example.com", Role: model.RoleVA},
			PasswordHash: hash,
		},
	})
}

func TestLogin(t *testing.T) {
	s := testService(t)

	token, user, err := s.Login("va@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Error("no token minted")
	}
	if user.ID != "va" || user.Role != model.RoleVA {
		t.Errorf("user = %+v", user)
	}
}

func TestLoginRejections(t *testing.T) {
	s := testService(t)
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "va@example.com", "nope"},
		{"unknown email", "ghost@example.com", "hunter2"},
		{"empty credentials", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.Login(tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService(t)
	token, _, err := s.Login("admin@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	u := s.UserForToken(token)
	if u == nil || u.ID != "admin" {
		t.Errorf("UserForToken = %+v", u)
	}
}

func TestTokenRejections(t *testing.T) {
	s := testService(t)

	if u := s.UserForToken(""); u != nil {
		t.Error("empty token resolved a user")
	}
	if u := s.UserForToken("garbage.token.here"); u != nil {
		t.Error("malformed token resolved a user")
	}

	// Token signed with a different secret is forged.
	other := testService(t)
	other.secret = []byte("other-secret")
	forged, err := other.mintToken("admin")
	if err != nil {
		t.Fatal(err)
	}
	if u := s.UserForToken(forged); u != nil {
		t.Error("forged token resolved a user")
	}
}

func TestCurrentUserFromCookie(t *testing.T) {
	s := testService(t)
	token, _, err := s.Login("va@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, token)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if u := s.CurrentUser(req); u == nil || u.ID != "va" {
		t.Errorf("CurrentUser = %+v", u)
	}

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	if u := s.CurrentUser(bare); u != nil {
		t.Error("request without cookie resolved a user")
	}
}

func TestUsers(t *testing.T) {
	s := testService(t)
	users := s.Users()
	if len(users) != 2 {
		t.Fatalf("%d users, want 2", len(users))
	}
	if s.UserByID("missing") != nil {
		t.Error("unknown id resolved a user")
	}
}
