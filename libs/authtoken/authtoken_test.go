package authtoken

import (
	"testing"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/da-matrix/api/rpc/perms"
)

func TestMalformedPermissionsToken(t *testing.T) {
	signer, verifier := newKeys(t, make([]byte, 32))
	token, err := jwt.NewBuilder(signer).Build(map[string]any{"Allow": 42})
	require.NoError(t, err)

	_, err = ExtractSignedPermissions(verifier, token.String())
	require.Error(t, err)
}

func TestExtractSignedPermissions(t *testing.T) {
	signer, verifier := newKeys(t, make([]byte, 32))

	token, err := NewSignedJWT(signer, perms.ReadPerms)
	require.NoError(t, err)
	got, err := ExtractSignedPermissions(verifier, token)
	require.NoError(t, err)
	require.Equal(t, perms.ReadPerms, got)

	t.Run("foreign signer", func(t *testing.T) {
		other := make([]byte, 32)
		other[0] = 1
		_, otherVerifier := newKeys(t, other)
		_, err := ExtractSignedPermissions(otherVerifier, token)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		raw, err := perms.NewTokenWithPerms(signer, perms.AllPerms, -time.Minute)
		require.NoError(t, err)
		_, err = ExtractSignedPermissions(verifier, string(raw))
		require.ErrorIs(t, err, ErrExpired)

		raw, err = perms.NewTokenWithPerms(signer, perms.AllPerms, time.Minute)
		require.NoError(t, err)
		got, err := ExtractSignedPermissions(verifier, string(raw))
		require.NoError(t, err)
		require.Equal(t, perms.AllPerms, got)
	})
}

func newKeys(t *testing.T, key []byte) (jwt.Signer, jwt.Verifier) {
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	require.NoError(t, err)
	verifier, err := jwt.NewVerifierHS(jwt.HS256, key)
	require.NoError(t, err)
	return signer, verifier
}
