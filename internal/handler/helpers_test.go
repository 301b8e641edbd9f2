package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tastehub/api/internal/auth"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
	"github.com/tastehub/api/internal/middleware"
)

const testSecret = "test-secret"

// --- Shared user store ---

// mockUserStore backs auth, profile and admin user tests, and doubles as the
// middleware.UserLookup for every authenticated route.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]database.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]database.User)}
}

func (m *mockUserStore) add(u database.User) database.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
		u.UpdatedAt = u.CreatedAt
	}
	m.users[u.ID] = u
	return u
}

func (m *mockUserStore) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	return m.add(database.User{
		Name:           arg.Name,
		Email:          arg.Email,
		HashedPassword: arg.HashedPassword,
		Role:           arg.Role,
		Phone:          arg.Phone,
		IsActive:       true,
	}), nil
}

func (m *mockUserStore) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserStore) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return database.User{}, pgx.ErrNoRows
}

func (m *mockUserStore) ListUsers(_ context.Context) ([]database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]database.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserStore) UpdateUserProfile(_ context.Context, arg database.UpdateUserProfileParams) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[arg.ID]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	u.Name = arg.Name
	u.Email = arg.Email
	u.Phone = arg.Phone
	u.Address = arg.Address
	u.HashedPassword = arg.HashedPassword
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserStore) UpdateUserProfilePicture(_ context.Context, arg database.UpdateUserProfilePictureParams) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[arg.ID]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	u.ProfilePicture = arg.ProfilePicture
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserStore) SetUserActive(_ context.Context, arg database.SetUserActiveParams) (database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[arg.ID]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	u.IsActive = arg.IsActive
	m.users[u.ID] = u
	return u, nil
}

// --- Helpers ---

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func makeCustomer(t *testing.T, users *mockUserStore, email string) database.User {
	t.Helper()
	return users.add(database.User{
		Name:           "Test Customer",
		Email:          email,
		HashedPassword: hashPassword(t, "correct-password"),
		Role:           enum.UserRoleCustomer,
		IsActive:       true,
	})
}

func makeAdmin(t *testing.T, users *mockUserStore) database.User {
	t.Helper()
	return users.add(database.User{
		Name:           "Test Admin",
		Email:          "admin@test.com",
		HashedPassword: hashPassword(t, "admin-password"),
		Role:           enum.UserRoleAdmin,
		IsActive:       true,
	})
}

func tokenFor(t *testing.T, u database.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, u.ID, u.Role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

// authed returns a router whose routes registered by fn sit behind
// middleware.Authenticate backed by users.
func authed(users *mockUserStore, fn func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret, users))
		fn(r)
	})
	return r
}

// adminMiddleware is the chain router.New puts in front of admin routes.
func adminMiddleware(users *mockUserStore) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.Authenticate(testSecret, users),
		middleware.RequireRole(enum.UserRoleAdmin),
	}
}

// adminOnly is authed plus RequireRole(admin).
func adminOnly(users *mockUserStore, fn func(r chi.Router)) *chi.Mux {
	return authed(users, func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.UserRoleAdmin))
		fn(r)
	})
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, router, "POST", path, "", body)
}

// doRequest sends body as JSON. An empty token sends no Authorization header.
func doRequest(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rdr = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal request: %v", err)
			}
			rdr = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	return resp
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	expectStatus(t, rr, status)
	resp := decodeResponse(t, rr)
	if resp["error"] != msg {
		t.Errorf("error: got %v, want %q", resp["error"], msg)
	}
}

// memFiles is an in-memory storage.FileStore.
type memFiles struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{saved: make(map[string][]byte)}
}

func (m *memFiles) Save(_ context.Context, folder, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "/uploads/" + folder + "/" + uuid.NewString()
	m.saved[url] = data
	return url, nil
}

// mailRecorder is a mail.Mailer that records what would have been sent.
type mailRecorder struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	To, Subject, Body string
}

func (m *mailRecorder) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *mailRecorder) messages() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}
