package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"booka-backend/internal/domains/user"
	"booka-backend/pkg/jwt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

// fakeRepo enforces the unique username the way the database index does
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*user.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*user.User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Username]; ok {
		return user.ErrUsernameTaken
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.Username] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) SetRecommendationProxyWithTx(context.Context, pgx.Tx, int64, int64) error {
	return errors.New("not used")
}

type fakeCounter map[int64]int

func (f fakeCounter) CountByUser(_ context.Context, userID int64) (int, error) {
	return f[userID], nil
}

func newService(repo *fakeRepo, counts fakeCounter) (user.Service, *jwt.Manager) {
	tokens := jwt.NewManager("secret", time.Hour)
	return NewUserService(repo, tokens, counts), tokens
}

func TestRegister_ThenDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc, tokens := newService(repo, fakeCounter{})
	ctx := context.Background()

	res, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Nickname: "Alice", Password: "pw123"})
	require.NoError(t, err)
	assert.True(t, res.IsFirst)
	assert.Equal(t, "Alice", res.Nickname)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	_, err = svc.Register(ctx, user.RegisterRequest{Username: "alice", Nickname: "Other", Password: "pw456"})
	require.ErrorIs(t, err, user.ErrUsernameTaken)
	assert.Len(t, repo.users, 1)

	stored := repo.users["alice"]
	assert.True(t, stored.IsOriginal)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newService(newFakeRepo(), fakeCounter{})

	_, err := svc.Register(context.Background(), user.RegisterRequest{Username: "", Nickname: "x", Password: "pw123"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, user.ErrUsernameTaken))
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	counts := fakeCounter{}
	svc, _ := newService(repo, counts)
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Nickname: "Alice", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, user.LoginRequest{Username: "alice", Password: "wrongpw"})
	require.ErrorIs(t, err, user.ErrWrongPassword)

	_, err = svc.Login(ctx, user.LoginRequest{Username: "bob", Password: "pw123"})
	require.ErrorIs(t, err, user.ErrUserNotFound)

	res, err := svc.Login(ctx, user.LoginRequest{Username: "alice", Password: "pw123"})
	require.NoError(t, err)
	assert.True(t, res.IsFirst)
	assert.NotEmpty(t, res.Token)

	counts[repo.users["alice"].ID] = 3
	res, err = svc.Login(ctx, user.LoginRequest{Username: "alice", Password: "pw123"})
	require.NoError(t, err)
	assert.False(t, res.IsFirst)
}

func TestGetByID(t *testing.T) {
	svc, _ := newService(newFakeRepo(), fakeCounter{})

	_, err := svc.GetByID(context.Background(), 0)
	require.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = svc.GetByID(context.Background(), 12)
	require.ErrorIs(t, err, user.ErrUserNotFound)
}
