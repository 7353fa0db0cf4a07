package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/session"
)

type memorySessionStore struct {
	records map[string]*session.Payload
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{records: make(map[string]*session.Payload)}
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*session.Payload, error) {
	payload, ok := s.records[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	copied := *payload
	return &copied, nil
}

func (s *memorySessionStore) Set(_ context.Context, id string, payload *session.Payload, _ time.Duration) error {
	copied := *payload
	s.records[id] = &copied
	return nil
}

func (s *memorySessionStore) Destroy(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return session.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type memoryUserStore struct {
	users map[string]*models.User
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	copied := *user
	return &copied, nil
}

type authFixture struct {
	sessions *session.Manager
	users    *memoryUserStore
	user     *models.User
}

func newAuthFixture(role string) *authFixture {
	gin.SetMode(gin.TestMode)
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  role,
	}
	return &authFixture{
		sessions: session.NewManager(newMemorySessionStore(), time.Hour),
		users:    &memoryUserStore{users: map[string]*models.User{user.ID.Hex(): user}},
		user:     user,
	}
}

func (f *authFixture) login(t *testing.T) string {
	t.Helper()
	id, err := f.sessions.Create(context.Background(), f.user.ID.Hex(), f.user.Name, f.user.Email, f.user.Role)
	require.NoError(t, err)
	return id
}

func (f *authFixture) request(handler gin.HandlerFunc, sessionID string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/protected", handler, func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	f := newAuthFixture(models.RoleCustomer)

	w := f.request(RequireAuth(f.sessions, f.users), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthUnknownSession(t *testing.T) {
	f := newAuthFixture(models.RoleCustomer)

	w := f.request(RequireAuth(f.sessions, f.users), "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAttachesUser(t *testing.T) {
	f := newAuthFixture(models.RoleCustomer)
	id := f.login(t)

	w := f.request(RequireAuth(f.sessions, f.users), id)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestRequireAuthAfterLogout(t *testing.T) {
	f := newAuthFixture(models.RoleCustomer)
	id := f.login(t)
	require.NoError(t, f.sessions.Destroy(context.Background(), id))

	w := f.request(RequireAuth(f.sessions, f.users), id)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthDeletedUser(t *testing.T) {
	f := newAuthFixture(models.RoleCustomer)
	id := f.login(t)
	delete(f.users.users, f.user.ID.Hex())

	w := f.request(RequireAuth(f.sessions, f.users), id)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	f := newAuthFixture(models.RoleCustomer)
	id := f.login(t)

	w := f.request(RequireAdmin(f.sessions, f.users), id)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	f := newAuthFixture(models.RoleAdmin)
	id := f.login(t)

	w := f.request(RequireAdmin(f.sessions, f.users), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

// A role change in the database must win over the role frozen into the
// session payload when the session was created.
func TestRequireAdminChecksPersistedRole(t *testing.T) {
	f := newAuthFixture(models.RoleAdmin)
	id := f.login(t)
	f.user.Role = models.RoleCustomer

	w := f.request(RequireAdmin(f.sessions, f.users), id)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
