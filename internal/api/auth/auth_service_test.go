package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-admin/config"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

var testJWT = config.JWTConfig{
	SecretKey:      "test-secret",
	Issuer:         "user-admin",
	Audience:       "user-admin-panel",
	AccessTokenTTL: time.Hour,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*AuthServiceImpl, *MemoryAuthRepo) {
	repo := NewMemoryAuthRepo()
	return NewAuthService(repo, testJWT, discardLogger()), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	admin, token, err := svc.Register(ctx, " Renz ", " Admin@Example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Renz", admin.Name)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NotEqual(t, "secret", admin.PasswordHash)
	assert.NotEmpty(t, token)

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "Other", "admin@example.com", "x")
		assert.ErrorIs(t, err, types.ErrAlreadyExists)
		assert.Equal(t, "Email already exists.", types.MessageOf(err))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "", "a@b.com", "x")
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		assert.Equal(t, "All fields are required.", types.MessageOf(err))
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	registered, _, err := svc.Register(ctx, "Renz", "admin@example.com", "secret")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		admin, token, err := svc.Login(ctx, "ADMIN@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, admin.ID)

		claims, err := parseAccessToken(testJWT, token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID.String(), claims.UserID)
		assert.Equal(t, "admin@example.com", claims.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "secret")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, "User not found.", types.MessageOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "admin@example.com", "nope")
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	admin, token, err := svc.Register(ctx, "Renz", "admin@example.com", "secret")
	require.NoError(t, err)

	t.Run("valid token yields actor", func(t *testing.T) {
		actor, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, types.Actor{ID: admin.ID, Email: admin.Email}, actor)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := issueAccessToken(testJWT, admin, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, expired)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
		assert.Equal(t, "Token has expired", types.MessageOf(err))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := testJWT
		cfg.Issuer = "someone-else"
		foreign, err := issueAccessToken(cfg, admin, time.Now())
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, foreign)
		assert.Equal(t, "Invalid token issuer", types.MessageOf(err))
	})

	t.Run("wrong audience", func(t *testing.T) {
		cfg := testJWT
		cfg.Audience = "another-app"
		foreign, err := issueAccessToken(cfg, admin, time.Now())
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, foreign)
		assert.Equal(t, "Invalid token audience", types.MessageOf(err))
	})

	t.Run("wrong signature", func(t *testing.T) {
		cfg := testJWT
		cfg.SecretKey = "other-secret"
		forged, err := issueAccessToken(cfg, admin, time.Now())
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, forged)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not.a.token")
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("unsigned alg none is rejected", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, types.Claims{UserID: admin.ID.String()}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, unsigned)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateAdmin(ctx context.Context, name, email, passwordHash string) (types.Admin, error) {
	args := m.Called(ctx, name, email, passwordHash)
	return args.Get(0).(types.Admin), args.Error(1)
}

func (m *MockAuthRepo) GetAdminByEmail(ctx context.Context, email string) (types.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(types.Admin), args.Error(1)
}

func (m *MockAuthRepo) GetAdminByID(ctx context.Context, id uuid.UUID) (types.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.Admin), args.Error(1)
}

func TestAuthenticate_CachesActor(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, testJWT, discardLogger())
	admin := types.Admin{ID: uuid.New(), Email: "admin@example.com"}
	token, err := issueAccessToken(testJWT, admin, time.Now())
	require.NoError(t, err)

	repo.On("GetAdminByID", mock.Anything, admin.ID).Return(admin, nil).Once()

	for i := 0; i < 3; i++ {
		actor, err := svc.Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, actor.ID)
	}
	repo.AssertExpectations(t)
}

func TestAuthenticate_DeletedAdminIsUnauthorized(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, testJWT, discardLogger())
	admin := types.Admin{ID: uuid.New(), Email: "gone@example.com"}
	token, err := issueAccessToken(testJWT, admin, time.Now())
	require.NoError(t, err)

	repo.On("GetAdminByID", mock.Anything, admin.ID).Return(types.Admin{}, types.NotFoundf("User not found."))

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestAuthenticate_StoreDownIsUnavailable(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, testJWT, discardLogger())
	admin := types.Admin{ID: uuid.New()}
	token, err := issueAccessToken(testJWT, admin, time.Now())
	require.NoError(t, err)

	repo.On("GetAdminByID", mock.Anything, admin.ID).
		Return(types.Admin{}, types.NewError(types.KindUnavailable, "database unavailable", nil))

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, types.ErrUnavailable)
}

func TestBearerToken(t *testing.T) {
	tok, err := bearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = bearerToken("bearer   abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	for _, bad := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := bearerToken(bad)
		assert.ErrorIs(t, err, types.ErrUnauthorized, bad)
	}
}
