package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/mreid/group-session-website/internal/repository/postgres"
	"github.com/mreid/group-session-website/internal/service"
	"github.com/mreid/group-session-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionService_CreateTemporaryUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	provider := testutil.NewFakeIdentityProvider()
	svc := service.NewProvisionService(repos.User, provider, "temporary.edu")
	ctx := context.Background()

	result, err := svc.CreateTemporaryUser(ctx, "abc123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Username, "guest_"))
	assert.NotEmpty(t, result.Password)
	assert.Equal(t, result.Username, result.User.Username)
	assert.NotEmpty(t, result.User.ClerkID)
	require.NotNil(t, result.User.SessionID)
	assert.Equal(t, "abc123", *result.User.SessionID)

	// The generated credentials work at the provider immediately.
	attempt, err := provider.SignIn(ctx, result.Username+"@temporary.edu", result.Password)
	require.NoError(t, err)
	assert.True(t, attempt.Complete())

	// And the row is persisted with the provider-assigned id.
	stored, err := repos.User.GetByClerkID(ctx, result.User.ClerkID)
	require.NoError(t, err)
	assert.Equal(t, result.Username, stored.Username)
	assert.False(t, stored.IsActive)
}

func TestProvisionService_RegistrationFailureAborts(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	provider := testutil.NewFakeIdentityProvider()
	provider.FailRegister = true
	svc := service.NewProvisionService(repos.User, provider, "temporary.edu")

	_, err := svc.CreateTemporaryUser(context.Background(), "abc123")
	require.Error(t, err)

	// Nothing was persisted.
	var count int64
	testDB.DB.Table("users").Count(&count)
	assert.Zero(t, count)
}
