package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"taskboard/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

type stubUserRepo struct {
	users map[string]*model.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

// identityEcho reports what the middleware attached to the context.
func identityEcho(w http.ResponseWriter, r *http.Request) {
	id, _ := GetUserIDFromContext(r.Context())
	role, _ := GetUserRoleFromContext(r.Context())
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"id": id, "role": role})
}

func authedStack(repo *stubUserRepo, final http.HandlerFunc) http.Handler {
	return jwtauth.Verifier(security.TokenAuth)(Authenticator(repo)(final))
}

func doRequest(t *testing.T, h http.Handler, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator_MissingToken(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{}}
	rec := doRequest(t, authedStack(repo, identityEcho), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticator_MalformedToken(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{}}
	rec := doRequest(t, authedStack(repo, identityEcho), "not.a.token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{
		"u1": {ID: "u1", Role: model.RoleMember},
	}}

	claims := jwt.MapClaims{
		"user_id": "u1",
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	_, expired, err := security.TokenAuth.Encode(claims)
	if err != nil {
		t.Fatalf("encoding expired token: %v", err)
	}

	rec := doRequest(t, authedStack(repo, identityEcho), expired)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthenticator_FailureMessagesAreUniform(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{}}
	h := authedStack(repo, identityEcho)

	// A token for a user that no longer exists.
	orphan, err := security.GenerateToken("ghost")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	var messages []string
	for _, bearer := range []string{"", "garbage", orphan} {
		rec := doRequest(t, h, bearer)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("bearer %q: expected 401, got %d", bearer, rec.Code)
		}
		var body common.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("bearer %q: decoding body: %v", bearer, err)
		}
		messages = append(messages, body.Error)
	}
	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Fatalf("failure messages are distinguishable: %v", messages)
		}
	}
}

func TestAuthenticator_RoleIsReadLiveFromStore(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*model.User{
		"u1": {ID: "u1", Role: model.RoleMember},
	}}
	h := authedStack(repo, identityEcho)

	token, err := security.GenerateToken("u1")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	rec := doRequest(t, h, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got["role"] != model.RoleMember {
		t.Fatalf("expected member role, got %q", got["role"])
	}

	// Promote the user out of band; the same token now carries admin.
	repo.users["u1"].Role = model.RoleAdmin

	rec = doRequest(t, h, token)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got["role"] != model.RoleAdmin {
		t.Fatalf("role change not picked up live, got %q", got["role"])
	}
}

func TestAdminOnly(t *testing.T) {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		role string
		want int
	}{
		{model.RoleAdmin, http.StatusOK},
		{model.RoleMember, http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		if tc.role != "" {
			ctx := context.WithValue(req.Context(), UserRoleCtxKey, tc.role)
			req = req.WithContext(ctx)
		}
		rec := httptest.NewRecorder()
		AdminOnly(final).ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("role %q: expected %d, got %d", tc.role, tc.want, rec.Code)
		}
	}
}
