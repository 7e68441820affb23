package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"instacampus/internal/entity"
	"instacampus/internal/repository"
	"instacampus/internal/service"
)

type stubUserLoader struct {
	users map[int]*entity.User
}

func (s *stubUserLoader) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

type stubSessionStore struct {
	sessions map[string]string
}

func (s *stubSessionStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := s.sessions[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func sessionToken(t *testing.T, secret string, userID int, role string) *jwt.Token {
	t.Helper()
	claims := &service.SessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(raw, &service.SessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	return parsed
}

func runAttachUser(t *testing.T, token *jwt.Token, loader UserLoader, sessions SessionReader) (*httptest.ResponseRecorder, *entity.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", token)

	var attached *entity.User
	handler := AttachUser(loader, sessions)(func(c echo.Context) error {
		attached = CurrentUser(c)
		return c.NoContent(200)
	})
	require.NoError(t, handler(c))
	return rec, attached
}

func TestAttachUserAcceptsMirroredSession(t *testing.T) {
	t.Setenv("ENV", "")
	user := &entity.User{ID: 7, Name: "Budi", Role: entity.RoleStudent}
	token := sessionToken(t, "test-secret", user.ID, user.Role)
	loader := &stubUserLoader{users: map[int]*entity.User{user.ID: user}}
	sessions := &stubSessionStore{sessions: map[string]string{
		fmt.Sprintf("session:%d", user.ID): token.Raw,
	}}

	rec, attached := runAttachUser(t, token, loader, sessions)
	require.Equal(t, 200, rec.Code)
	require.NotNil(t, attached)
	require.Equal(t, user.ID, attached.ID)
}

func TestAttachUserRejectsRevokedSession(t *testing.T) {
	t.Setenv("ENV", "")
	user := &entity.User{ID: 7, Role: entity.RoleStudent}
	token := sessionToken(t, "test-secret", user.ID, user.Role)
	loader := &stubUserLoader{users: map[int]*entity.User{user.ID: user}}

	// logout deleted the mirror, the cookie alone is not enough
	rec, attached := runAttachUser(t, token, loader, &stubSessionStore{sessions: map[string]string{}})
	require.Equal(t, 401, rec.Code)
	require.Nil(t, attached)
}

func TestAttachUserRejectsSupersededToken(t *testing.T) {
	t.Setenv("ENV", "")
	user := &entity.User{ID: 7, Role: entity.RoleStudent}
	oldToken := sessionToken(t, "test-secret", user.ID, user.Role)
	newToken := sessionToken(t, "other-secret", user.ID, user.Role)
	loader := &stubUserLoader{users: map[int]*entity.User{user.ID: user}}
	sessions := &stubSessionStore{sessions: map[string]string{
		fmt.Sprintf("session:%d", user.ID): newToken.Raw,
	}}

	rec, attached := runAttachUser(t, oldToken, loader, sessions)
	require.Equal(t, 401, rec.Code)
	require.Nil(t, attached)
}

func TestAttachUserRejectsDeletedUser(t *testing.T) {
	t.Setenv("ENV", "")
	token := sessionToken(t, "test-secret", 7, entity.RoleStudent)
	sessions := &stubSessionStore{sessions: map[string]string{
		"session:7": token.Raw,
	}}

	rec, attached := runAttachUser(t, token, &stubUserLoader{users: map[int]*entity.User{}}, sessions)
	require.Equal(t, 401, rec.Code)
	require.Nil(t, attached)
}
