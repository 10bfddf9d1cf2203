package service_test

import (
	"context"
	"testing"

	"github.com/mreid/group-session-website/internal/cache"
	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/repository/postgres"
	"github.com/mreid/group-session-website/internal/service"
	"github.com/mreid/group-session-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type joinFixture struct {
	db       *gorm.DB
	provider *testutil.FakeIdentityProvider
	join     *service.JoinService
	users    *service.UserService
}

func newJoinFixture(t *testing.T) *joinFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	provider := testutil.NewFakeIdentityProvider()
	services := service.NewServices(repos, provider, cache.Noop{}, cfg)

	return &joinFixture{
		db:       testDB.DB,
		provider: provider,
		join:     services.Join,
		users:    services.User,
	}
}

func TestJoinService_CompletedSessionShortCircuits(t *testing.T) {
	f := newJoinFixture(t)
	ctx := context.Background()

	testutil.NewSessionBuilder().
		WithID("abc123").
		WithStatus(domain.SessionStatusCompleted).
		Build(t, f.db)

	_, err := f.join.Join(ctx, "abc123")
	assert.ErrorIs(t, err, service.ErrSessionEnded)

	// No provider traffic, no rows written.
	assert.Zero(t, f.provider.CreateCalls)
	assert.Zero(t, f.provider.SignInCalls)
	assert.Zero(t, f.provider.DeleteCalls)

	var count int64
	f.db.Model(&domain.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestJoinService_UnknownSession(t *testing.T) {
	f := newJoinFixture(t)

	_, err := f.join.Join(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrSessionExpired)
	assert.Zero(t, f.provider.SignInCalls)
}

func TestJoinService_FreshUserProvisioned(t *testing.T) {
	f := newJoinFixture(t)
	ctx := context.Background()

	testutil.NewSessionBuilder().
		WithID("abc123").
		WithStatus(domain.SessionStatusActive).
		Build(t, f.db)

	result, err := f.join.Join(ctx, "abc123")
	require.NoError(t, err)

	// Exactly one provisioning, one sign-in, no deletes.
	assert.Equal(t, 1, f.provider.CreateCalls)
	assert.Equal(t, 1, f.provider.SignInCalls)
	assert.Zero(t, f.provider.DeleteCalls)

	assert.Equal(t, "/join/abc123/group", result.RedirectURL)
	assert.NotEmpty(t, result.SessionToken)
	require.NotNil(t, result.User.SessionID)
	assert.Equal(t, "abc123", *result.User.SessionID)

	// The row is findable by the returned user's provider id.
	stored, err := f.users.GetByClerkID(ctx, result.User.ClerkID)
	require.NoError(t, err)
	assert.Equal(t, result.User.Username, stored.Username)
}

func TestJoinService_ExistingUserSignsInWithoutProvisioning(t *testing.T) {
	f := newJoinFixture(t)
	ctx := context.Background()

	testutil.NewSessionBuilder().
		WithID("abc123").
		WithStatus(domain.SessionStatusActive).
		Build(t, f.db)

	existing := testutil.NewUserBuilder().
		WithSessionID("abc123").
		Build(t, f.db)
	f.provider.Register(existing.LoginIdentifier("temporary.edu"), existing.TempPassword, existing.ClerkID)

	result, err := f.join.Join(ctx, "abc123")
	require.NoError(t, err)

	assert.Zero(t, f.provider.CreateCalls)
	assert.Zero(t, f.provider.DeleteCalls)
	assert.Equal(t, 1, f.provider.SignInCalls)
	assert.Equal(t, existing.ID, result.User.ID)
}

func TestJoinService_SelfHealReplacesStaleUser(t *testing.T) {
	f := newJoinFixture(t)
	ctx := context.Background()

	testutil.NewSessionBuilder().
		WithID("abc123").
		WithStatus(domain.SessionStatusActive).
		Build(t, f.db)

	// Row exists but the provider no longer knows the account, so the
	// stored credentials cannot sign in.
	stale := testutil.NewUserBuilder().
		WithSessionID("abc123").
		Build(t, f.db)

	result, err := f.join.Join(ctx, "abc123")
	require.NoError(t, err)

	// One delete, one provisioning, two sign-in attempts total.
	assert.Equal(t, 1, f.provider.DeleteCalls)
	assert.Equal(t, 1, f.provider.CreateCalls)
	assert.Equal(t, 2, f.provider.SignInCalls)

	// The stale row is gone and the replacement is bound to the session.
	_, err = f.users.GetByClerkID(ctx, stale.ClerkID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.NotEqual(t, stale.ID, result.User.ID)
	require.NotNil(t, result.User.SessionID)
	assert.Equal(t, "abc123", *result.User.SessionID)
}

func TestJoinService_SecondSignInFailureDoesNotLoop(t *testing.T) {
	f := newJoinFixture(t)
	ctx := context.Background()

	testutil.NewSessionBuilder().
		WithID("abc123").
		WithStatus(domain.SessionStatusActive).
		Build(t, f.db)

	testutil.NewUserBuilder().
		WithSessionID("abc123").
		Build(t, f.db)

	// Every sign-in fails, including the one after self-heal.
	f.provider.FailSignIn = true

	_, err := f.join.Join(ctx, "abc123")
	require.Error(t, err)

	// One self-heal attempt and no further looping.
	assert.Equal(t, 1, f.provider.DeleteCalls)
	assert.Equal(t, 1, f.provider.CreateCalls)
	assert.Equal(t, 2, f.provider.SignInCalls)
}

func TestJoinService_ProvisionFailurePropagates(t *testing.T) {
	f := newJoinFixture(t)
	ctx := context.Background()

	testutil.NewSessionBuilder().
		WithID("abc123").
		WithStatus(domain.SessionStatusActive).
		Build(t, f.db)

	f.provider.FailRegister = true

	_, err := f.join.Join(ctx, "abc123")
	require.Error(t, err)
	assert.Zero(t, f.provider.SignInCalls)

	var count int64
	f.db.Model(&domain.User{}).Count(&count)
	assert.Zero(t, count)
}
