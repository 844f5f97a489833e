package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dompet/service/internal/config"
	"github.com/dompet/service/internal/user"
)

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	byName map[string]*user.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: make(map[string]*user.User), nextID: 1}
}

func (f *fakeUsers) Create(_ context.Context, username, passwordHash string) (*user.User, error) {
	if _, exists := f.byName[username]; exists {
		return nil, user.ErrAlreadyExists
	}
	u := &user.User{
		ID:           f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.nextID++
	f.byName[username] = u
	return u, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*user.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret"}
}

func parseSubject(t *testing.T, tokenString, secret string) string {
	t.Helper()
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	return sub
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	svc := NewService(users, testConfig())

	token, u, err := svc.Register(context.Background(), "budi", "rahasia123")
	require.NoError(t, err)

	assert.NotEqual(t, "rahasia123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rahasia123")))
	assert.Equal(t, strconv.FormatInt(u.ID, 10), parseSubject(t, token, "test-secret"))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	svc := NewService(users, testConfig())

	_, _, err := svc.Register(context.Background(), "budi", "pw")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "budi", "pw2")
	assert.ErrorIs(t, err, user.ErrAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	svc := NewService(users, testConfig())

	_, created, err := svc.Register(context.Background(), "siti", "correct-horse")
	require.NoError(t, err)

	token, u, err := svc.Login(context.Background(), "siti", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.Equal(t, strconv.FormatInt(u.ID, 10), parseSubject(t, token, "test-secret"))
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	users := newFakeUsers()
	svc := NewService(users, testConfig())

	_, _, err := svc.Register(context.Background(), "siti", "correct-horse")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "siti", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeUsers(), testConfig())

	_, _, err := svc.Login(context.Background(), "nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
