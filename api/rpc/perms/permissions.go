package perms

import (
	"crypto/rand"
	"encoding/json"
	"time"

	"github.com/cristalhq/jwt/v5"
	"github.com/filecoin-project/go-jsonrpc/auth"
)

var (
	DefaultPerms = []auth.Permission{"public"}
	ReadPerms    = []auth.Permission{"public", "read"}
	AllPerms     = []auth.Permission{"public", "read", "admin"}
)

var AuthKey = "Authorization"

// JWTPayload is a utility struct for marshaling/unmarshalling
// permissions into for token signing/verifying.
type JWTPayload struct {
	Allow     []auth.Permission
	Nonce     []byte
	ExpiresAt time.Time
}

func (j *JWTPayload) MarshalBinary() (data []byte, err error) {
	return json.Marshal(j)
}

// Expired reports whether the payload carries an expiration time which has passed.
func (j *JWTPayload) Expired() bool {
	return !j.ExpiresAt.IsZero() && time.Now().UTC().After(j.ExpiresAt)
}

// NewTokenWithPerms generates and signs a new JWT token with the given secret
// and given permissions. Zero ttl issues a token which never expires.
func NewTokenWithPerms(signer jwt.Signer, perms []auth.Permission, ttl time.Duration) ([]byte, error) {
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}

	p := &JWTPayload{
		Allow: perms,
		Nonce: nonce[:],
	}
	if ttl != 0 {
		p.ExpiresAt = time.Now().UTC().Add(ttl)
	}
	token, err := jwt.NewBuilder(signer).Build(p)
	if err != nil {
		return nil, err
	}
	return token.Bytes(), nil
}
