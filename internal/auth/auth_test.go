package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test Register
func TestService_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid_registration", username: "alice", password: "s3cret"},
		{name: "empty_username", username: "", password: "s3cret", wantErr: ErrInvalidCredentials},
		{name: "empty_password", username: "alice", password: "", wantErr: ErrInvalidCredentials},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := NewService("test-secret")
			err := svc.Register(tc.username, tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}

	t.Run("duplicate_username", func(t *testing.T) {
		t.Parallel()

		svc := NewService("test-secret")
		require.NoError(t, svc.Register("alice", "s3cret"))
		require.ErrorIs(t, svc.Register("alice", "other"), ErrUserExists)
	})
}

// Test Login + VerifyToken round trip
func TestService_LoginAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret")
	require.NoError(t, svc.Register("alice", "s3cret"))

	t.Run("valid_credentials_yield_verifiable_token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Login("alice", "s3cret")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		caller, err := svc.VerifyToken(token)
		require.NoError(t, err)
		require.Equal(t, "alice", caller)
	})

	t.Run("wrong_password", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Login("alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown_user", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Login("mallory", "s3cret")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage_token", func(t *testing.T) {
		t.Parallel()

		_, err := svc.VerifyToken("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token_signed_with_other_secret", func(t *testing.T) {
		t.Parallel()

		other := NewService("other-secret")
		require.NoError(t, other.Register("alice", "s3cret"))
		token, err := other.Login("alice", "s3cret")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
