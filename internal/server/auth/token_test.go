package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weatherdesk/weatherdesk/internal/common"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	require.ErrorIs(t, err, common.ErrMissingSigningKey)
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	i, err := NewIssuer("k", 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, i.TTL())
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	i, err := NewIssuer("super-secret", DefaultTTL, WithClock(fixedClock(now)))
	require.NoError(t, err)

	tok, err := i.Issue("user-123", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := i.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.True(t, now.Equal(claims.IssuedAt.Time))
	assert.True(t, now.Add(24*time.Hour).Equal(claims.ExpiresAt.Time))
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	minting, err := NewIssuer("secret", time.Hour, WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)
	tok, err := minting.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	later, err := NewIssuer("secret", time.Hour, WithClock(fixedClock(issuedAt.Add(2*time.Hour))))
	require.NoError(t, err)

	_, err = later.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_ExpiredWithBadSignatureIsStillExpired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	other, err := NewIssuer("other-secret", time.Minute, WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)
	tok, err := other.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	i, err := NewIssuer("secret", time.Minute, WithClock(fixedClock(issuedAt.Add(time.Hour))))
	require.NoError(t, err)

	_, err = i.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	a, err := NewIssuer("right-secret", time.Hour)
	require.NoError(t, err)
	b, err := NewIssuer("wrong-secret", time.Hour)
	require.NoError(t, err)

	tok, err := a.Issue("u2", "u2@x.com")
	require.NoError(t, err)

	_, err = b.Verify(tok)
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestVerify_Truncated(t *testing.T) {
	t.Parallel()

	i, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	tok, err := i.Issue("u3", "u3@x.com")
	require.NoError(t, err)

	_, err = i.Verify(tok[:len(tok)-1])
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	i, err := NewIssuer("k", time.Hour)
	require.NoError(t, err)

	for _, in := range []string{"", "not.a.jwt", "garbage", strings.Repeat("a", 64)} {
		_, err := i.Verify(in)
		require.ErrorIs(t, err, common.ErrTokenInvalid, "input %q", in)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	i, err := NewIssuer("k", time.Hour)
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "u4",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = i.Verify(signed)
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	i, err := NewIssuer("k", time.Hour)
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u5"})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = i.Verify(signed)
	require.ErrorIs(t, err, common.ErrTokenInvalid)
}
