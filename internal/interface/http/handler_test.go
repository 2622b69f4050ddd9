package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careview/careview/internal/application"
	"github.com/careview/careview/internal/container"
	"github.com/careview/careview/internal/domain/entity"
	"github.com/careview/careview/internal/domain/repository"
	handlers "github.com/careview/careview/internal/interface/http"
	"github.com/careview/careview/internal/router/modules"
	"github.com/careview/careview/pkg/helpers"
	"github.com/careview/careview/pkg/validation"
)

// sharedDenylist backs the auth middleware, which resolves its denylist
// through the container. Revocation is keyed by jti, so parallel tests
// sharing one instance cannot interfere with each other.
var sharedDenylist = newMemDenylist()

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	container.SetDenylist(sharedDenylist)
	os.Exit(m.Run())
}

// in-memory stores

type memUserRepo struct {
	mu    sync.Mutex
	users []*entity.User
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	m.users = append(m.users, &cp)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews []entity.Review
	clock   time.Time
}

func (m *memReviewRepo) Create(_ context.Context, r *entity.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clock.IsZero() {
		m.clock = time.Unix(1_700_000_000, 0)
	}
	m.clock = m.clock.Add(time.Second)
	r.ID = uuid.NewString()
	r.CreatedAt = m.clock
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *memReviewRepo) List(_ context.Context, limit, offset int) ([]entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := make([]entity.Review, len(m.reviews))
	copy(sorted, m.reviews)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if offset >= len(sorted) {
		return []entity.Review{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (m *memReviewRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.reviews)), nil
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemDenylist() *memDenylist { return &memDenylist{revoked: map[string]bool{}} }

func (d *memDenylist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = true
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[jti], nil
}

type testServer struct {
	engine *gin.Engine
	jwt    *helpers.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwtm := helpers.NewJWTManager("handler-test-secret", time.Hour)

	authSvc := application.NewAuthService(&memUserRepo{}, jwtm, logger)
	reviewSvc := application.NewReviewService(&memReviewRepo{}, nil, logger)

	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html>shell</html>"), 0o600))

	r := gin.New()
	api := r.Group("/api")
	modules.NewAuthModule(handlers.NewAuthHandler(authSvc, sharedDenylist, logger), jwtm).Register(api)
	modules.NewReviewModule(handlers.NewReviewHandler(reviewSvc, logger), jwtm).Register(api)
	r.GET("/health", handlers.NewHealthHandler().Health)
	r.NoRoute(handlers.NotFoundFallback(webDir))

	return &testServer{engine: r, jwt: jwtm}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func (ts *testServer) register(t *testing.T, name, email, password string) (token, userID string) {
	t.Helper()
	w := ts.request(t, http.MethodPost, "/api/register", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	body := decode(t, w)
	return body["token"].(string), body["userId"].(string)
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/register", "", gin.H{
		"name": "Alice", "email": "alice@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["userId"])
	assert.Equal(t, "Alice", body["name"])

	claims, err := ts.jwt.Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, body["userId"], claims.UserID)
	assert.Equal(t, "alice@x.com", claims.Email)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@x.com", "password": "secret1"}},
		{"bad email", gin.H{"name": "A", "email": "not-an-email", "password": "secret1"}},
		{"short password", gin.H{"name": "A", "email": "a@x.com", "password": "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.request(t, http.MethodPost, "/api/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.register(t, "Alice", "alice@x.com", "secret1")

	w := ts.request(t, http.MethodPost, "/api/register", "", gin.H{
		"name": "Other", "email": "Alice@X.com", "password": "secret2",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "user already exists", decode(t, w)["error"])
}

func TestLogin_UniformError(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.register(t, "Alice", "alice@x.com", "secret1")

	wrongPwd := ts.request(t, http.MethodPost, "/api/login", "", gin.H{
		"email": "alice@x.com", "password": "nope123",
	})
	unknown := ts.request(t, http.MethodPost, "/api/login", "", gin.H{
		"email": "nobody@x.com", "password": "secret1",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPwd.Body.String(), unknown.Body.String(),
		"failure responses must not reveal whether the account exists")
	assert.Equal(t, "invalid credentials", decode(t, wrongPwd)["error"])
}

func TestVerify(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	token, userID := ts.register(t, "Alice", "alice@x.com", "secret1")

	w := ts.request(t, http.MethodGet, "/api/verify", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["valid"])
	user := body["user"].(map[string]any)
	assert.Equal(t, userID, user["userId"])
	assert.Equal(t, "alice@x.com", user["email"])
}

func TestAuth_MissingVersusInvalid(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	// absent credential is 401
	w := ts.request(t, http.MethodGet, "/api/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// malformed, wrong-secret, and expired tokens are all the same 403
	expired, _, err := helpers.NewJWTManager("handler-test-secret", -time.Minute).Issue("u", "u@x.com")
	require.NoError(t, err)
	foreign, _, err := helpers.NewJWTManager("other-secret", time.Hour).Issue("u", "u@x.com")
	require.NoError(t, err)

	var bodies []string
	for _, token := range []string{"garbage", expired, foreign} {
		w := ts.request(t, http.MethodGet, "/api/verify", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestLogout_RevokesToken(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	token, _ := ts.register(t, "Alice", "alice@x.com", "secret1")

	w := ts.request(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the same token is now refused even though its signature is valid
	w = ts.request(t, http.MethodGet, "/api/verify", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateReview_RatingBounds(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	token, _ := ts.register(t, "Alice", "alice@x.com", "secret1")

	for _, rating := range []int{0, 6} {
		w := ts.request(t, http.MethodPost, "/api/reviews", token, gin.H{
			"name": "Alice", "description": "Great visit", "rating": rating,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d must be rejected", rating)
	}
	for _, rating := range []int{1, 5} {
		w := ts.request(t, http.MethodPost, "/api/reviews", token, gin.H{
			"name": "Alice", "description": "Great visit", "rating": rating,
		})
		assert.Equal(t, http.StatusCreated, w.Code, "rating %d must be accepted", rating)
	}
}

func TestCreateReview_RequiresAuth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/reviews", "", gin.H{
		"name": "Alice", "description": "Great visit", "rating": 5,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateReview_OwnerFromToken(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	token, userID := ts.register(t, "Alice", "alice@x.com", "secret1")

	// a client-supplied userId field must be ignored
	w := ts.request(t, http.MethodPost, "/api/reviews", token, gin.H{
		"name": "Alice", "description": "Great visit", "rating": 5,
		"userId": "someone-else",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	review := decode(t, w)["review"].(map[string]any)
	assert.Equal(t, userID, review["userId"])
}

func TestListReviews_Pagination(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	token, _ := ts.register(t, "Alice", "alice@x.com", "secret1")

	for i := 0; i < 25; i++ {
		w := ts.request(t, http.MethodPost, "/api/reviews", token, gin.H{
			"name":        fmt.Sprintf("Visitor %d", i),
			"description": "another visit",
			"rating":      (i % 5) + 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := ts.request(t, http.MethodGet, "/api/reviews?page=1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["currentPage"])
	assert.Equal(t, float64(3), body["totalPages"])
	assert.Equal(t, float64(25), body["totalReviews"])
	reviews := body["reviews"].([]any)
	require.Len(t, reviews, 10)
	assert.Equal(t, "Visitor 24", reviews[0].(map[string]any)["name"])
}

func TestListReviews_GarbageParams(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	w := ts.request(t, http.MethodGet, "/api/reviews?page=zero&limit=-3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["currentPage"])
}

func TestEndToEnd(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/register", "", gin.H{
		"name": "Alice", "email": "alice@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode(t, w)["token"].(string)

	w = ts.request(t, http.MethodGet, "/api/verify", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["valid"])

	w = ts.request(t, http.MethodPost, "/api/reviews", token, gin.H{
		"name": "Alice", "description": "Great visit", "rating": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, http.MethodGet, "/api/reviews?page=1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reviews := decode(t, w)["reviews"].([]any)
	require.NotEmpty(t, reviews)
	first := reviews[0].(map[string]any)
	assert.Equal(t, "Alice", first["name"])
	assert.Equal(t, "Great visit", first["description"])
	assert.Equal(t, float64(5), first["rating"])
}

func TestUnknownAPIRoute(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	w := ts.request(t, http.MethodGet, "/api/does-not-exist", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", decode(t, w)["error"])
}

func TestNonAPIRoutesServeShell(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	w := ts.request(t, http.MethodGet, "/some/client/route", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shell")
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	w := ts.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, body["uptime"])
}
