package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"loyalty-engine/internal/pkg/errs"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrSealFailed   = errs.New("failed to seal record")
	ErrUnsealFailed = errs.New("failed to unseal record")
)

// sealer is an XChaCha20-Poly1305 AEAD over a key derived from the master
// key with HKDF-SHA256. Distinct info labels keep record keys independent,
// so a blob copied between record slots never decrypts.
type sealer struct {
	key [chacha20poly1305.KeySize]byte
}

func newSealer(masterKey []byte, label string) (*sealer, error) {
	s := &sealer{}
	kdf := hkdf.New(sha256.New, masterKey, nil, []byte(label))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, errs.Wrap(err, "key derivation failed")
	}
	return s, nil
}

// Seal returns nonce||ciphertext.
func (s *sealer) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key[:])
	if err != nil {
		return nil, errs.Mark(err, ErrSealFailed)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errs.Mark(err, ErrSealFailed)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open authenticates and decrypts a sealed blob. A blob that fails
// authentication is invalid, full stop: the raw bytes are never interpreted
// as plaintext data.
func (s *sealer) Open(blob []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key[:])
	if err != nil {
		return nil, errs.Mark(err, ErrUnsealFailed)
	}
	if len(blob) < aead.NonceSize() {
		return nil, ErrUnsealFailed
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.Mark(err, ErrUnsealFailed)
	}
	return plaintext, nil
}
