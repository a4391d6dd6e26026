package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret-0123456789", 24*time.Hour)

	signed, err := tokens.Issue("6650f0c1a2b3c4d5e6f70809", "client@example.com", "Client")
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "6650f0c1a2b3c4d5e6f70809", claims.UserID)
	assert.Equal(t, "client@example.com", claims.Email)
	assert.Equal(t, "Client", claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokens_Parse_Rejects(t *testing.T) {
	tokens := NewTokens("test-secret-0123456789", time.Hour)
	other := NewTokens("another-secret-987654321", time.Hour)

	foreign, err := other.Issue("u1", "a@b.c", "Admin")
	require.NoError(t, err)

	expired := NewTokens("test-secret-0123456789", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("u1", "a@b.c", "Client")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{UserID: "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"expired", old, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Parse(tt.token)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ClaimsFromContext(ctx))
	assert.Empty(t, UserIDFromContext(ctx))

	ctx = ContextWithClaims(ctx, &UserClaims{UserID: "u1", Role: "Admin"})
	assert.Equal(t, "u1", UserIDFromContext(ctx))
	assert.Equal(t, "Admin", ClaimsFromContext(ctx).Role)
}
