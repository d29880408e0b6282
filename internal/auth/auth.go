// Package auth holds the login-time crypto of the protocol: encrypting the
// shared secret, the server hash and offline-mode identities.
package auth

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"

	"github.com/Versifine/mclink/internal/protocol"
)

// OfflineUUID derives the UUID a server in offline mode assigns to username.
func OfflineUUID(username string) uuid.UUID {
	hash := md5.Sum([]byte("OfflinePlayer:" + username))
	// Set version to 3: byte 6 → 0011xxxx
	hash[6] = (hash[6] & 0x0F) | 0x30
	// Set variant to RFC 4122: byte 8 → 10xxxxxx
	hash[8] = (hash[8] & 0x3F) | 0x80
	return uuid.UUID(hash)
}

// ServerHash computes the session server id: the SHA-1 of serverID, the
// shared secret and the DER public key, printed as a signed hex number.
func ServerHash(serverID string, sharedSecret, publicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKey)
	return signedHex(h.Sum(nil))
}

func signedHex(digest []byte) string {
	n := new(big.Int).SetBytes(digest)
	if digest[0]&0x80 != 0 {
		// two's complement of a 160 bit number
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(digest)*8)))
	}
	return n.Text(16)
}

// NewSharedSecret returns a random AES key for the session.
func NewSharedSecret(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	secret := make([]byte, protocol.SharedSecretLen)
	if _, err := io.ReadFull(r, secret); err != nil {
		return nil, fmt.Errorf("%w: %w", protocol.ErrCryptoNegotiation, err)
	}
	return secret, nil
}

// EncryptWithPublicKey encrypts each value with the server's DER encoded RSA
// key using PKCS #1 v1.5 padding.
func EncryptWithPublicKey(der []byte, values ...[]byte) ([][]byte, error) {
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key: %w", protocol.ErrCryptoNegotiation, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key is %T, not RSA", protocol.ErrCryptoNegotiation, parsed)
	}
	out := make([][]byte, len(values))
	for i, v := range values {
		if out[i], err = rsa.EncryptPKCS1v15(rand.Reader, pub, v); err != nil {
			return nil, fmt.Errorf("%w: %w", protocol.ErrCryptoNegotiation, err)
		}
	}
	return out, nil
}
