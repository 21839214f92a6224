package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"cafehere/apperr"
	"cafehere/model"
	"cafehere/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type tokenFixture struct {
	tokens *TokenService
	creds  *CredentialService
	user   *model.User
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()
	store := memory.NewStore()
	creds := NewCredentialService(store.Users).WithCost(bcrypt.MinCost)
	user, err := creds.Register(context.Background(), "+82-1012345678", "pw1234")
	require.NoError(t, err)

	tokens := NewTokenService(TokenConfig{
		Secret:     testSecret,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, store.Users, NewMemoryBlacklist())
	return &tokenFixture{tokens: tokens, creds: creds, user: user}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized), "got %v", err)
}

func TestIssueAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)

	pair, err := f.tokens.Issue(ctx, f.user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	got, err := f.tokens.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, f.user.UUID, got.UUID)

	// a refresh token is not an access token
	_, err = f.tokens.Authenticate(ctx, pair.Refresh)
	assertUnauthorized(t, err)
}

func TestClaimsShape(t *testing.T) {
	f := newTokenFixture(t)
	pair, err := f.tokens.Issue(context.Background(), f.user)
	require.NoError(t, err)

	claims, err := f.tokens.parse(pair.Refresh, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, f.user.UUID.String(), claims.Subject)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)
	first, err := f.tokens.Issue(ctx, f.user)
	require.NoError(t, err)

	second, err := f.tokens.Refresh(ctx, first.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, first.Refresh, second.Refresh)

	_, err = f.tokens.Refresh(ctx, first.Refresh)
	assertUnauthorized(t, err)

	_, err = f.tokens.Refresh(ctx, second.Refresh)
	assert.NoError(t, err)
}

func TestRefreshIsSingleUseUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)
	pair, err := f.tokens.Issue(ctx, f.user)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.tokens.Refresh(ctx, pair.Refresh); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)
	pair, err := f.tokens.Issue(ctx, f.user)
	require.NoError(t, err)

	require.NoError(t, f.tokens.Revoke(ctx, pair.Refresh))
	assertUnauthorized(t, f.tokens.Revoke(ctx, pair.Refresh))

	_, err = f.tokens.Refresh(ctx, pair.Refresh)
	assertUnauthorized(t, err)

	// the access token of the pair stays valid until it expires
	_, err = f.tokens.Authenticate(ctx, pair.Access)
	assert.NoError(t, err)
}

func TestExpiredTokens(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)
	pair, err := f.tokens.Issue(ctx, f.user)
	require.NoError(t, err)

	f.tokens.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = f.tokens.Authenticate(ctx, pair.Access)
	assertUnauthorized(t, err)
	_, err = f.tokens.Refresh(ctx, pair.Refresh)
	assert.NoError(t, err)

	f.tokens.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	_, err = f.tokens.Refresh(ctx, pair.Refresh)
	assertUnauthorized(t, err)
}

func TestRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	f := newTokenFixture(t)

	claims := Claims{
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   f.user.UUID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}

	wrongSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = f.tokens.Authenticate(ctx, wrongSecret)
	assertUnauthorized(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = f.tokens.Authenticate(ctx, wrongAlg)
	assertUnauthorized(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = f.tokens.Authenticate(ctx, unsigned)
	assertUnauthorized(t, err)

	_, err = f.tokens.Authenticate(ctx, "not-a-jwt")
	assertUnauthorized(t, err)

	claims.ExpiresAt = nil
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = f.tokens.Authenticate(ctx, noExpiry)
	assertUnauthorized(t, err)
}

func TestInactiveUserRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	user := &model.User{Mobile: "+1-555", PasswordHash: "x", IsActive: false}
	require.NoError(t, store.Users.Create(ctx, user))
	tokens := NewTokenService(TokenConfig{Secret: testSecret, AccessTTL: time.Minute, RefreshTTL: time.Hour}, store.Users, NewMemoryBlacklist())

	pair, err := tokens.Issue(ctx, user)
	require.NoError(t, err)
	_, err = tokens.Authenticate(ctx, pair.Access)
	assertUnauthorized(t, err)
	_, err = tokens.Refresh(ctx, pair.Refresh)
	assertUnauthorized(t, err)
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlacklist()
	owner := uuid.New()

	require.NoError(t, b.Add(ctx, "a", owner, time.Now().Add(time.Hour)))
	assert.ErrorIs(t, b.Add(ctx, "a", owner, time.Now().Add(time.Hour)), ErrAlreadyBlacklisted)

	listed, err := b.Contains(ctx, "a")
	require.NoError(t, err)
	assert.True(t, listed)

	listed, err = b.Contains(ctx, "b")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestFlushExpired(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlacklist()
	tokens := NewTokenService(TokenConfig{Secret: testSecret, AccessTTL: time.Minute, RefreshTTL: time.Hour}, memory.NewStore().Users, b)

	require.NoError(t, b.Add(ctx, "live", uuid.New(), time.Now().Add(time.Hour)))
	// already expired tokens are kept for the minimum one second TTL
	require.NoError(t, b.Add(ctx, "dead", uuid.New(), time.Now().Add(-time.Minute)))
	time.Sleep(1100 * time.Millisecond)

	n, err := tokens.FlushExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	listed, err := b.Contains(ctx, "live")
	require.NoError(t, err)
	assert.True(t, listed)
}
