// Package crypto implements the envelope encryption primitive used by the PII
// vault. Each payload is encrypted under a fresh random data key with
// AES-256-GCM, and the data key itself is wrapped under the process-wide
// master key. Compromising a single data key therefore exposes a single
// stored item, never the whole vault.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"io"

	"golang.org/x/crypto/hkdf"

	dErrors "privacygate/pkg/domain-errors"
)

const (
	dataKeySize = 32
	ivSize      = 16
	nonceSize   = 12
	tagSize     = 16

	wrapLabel = "privacygate/wrap"
)

// Blob is an encrypted payload at rest. Fields map 1:1 onto the pii_vault
// columns; WrappedDataKey carries the wrapped key followed by its own GCM tag.
type Blob struct {
	KeyID          string
	WrappedDataKey []byte
	IV             []byte
	Tag            []byte
	Ciphertext     []byte
}

// Engine performs envelope encryption and decryption. It holds only the
// master key and is safe for concurrent use.
type Engine struct {
	master MasterKey
}

// NewEngine constructs an Engine around an already-loaded master key.
func NewEngine(master MasterKey) *Engine {
	return &Engine{master: master}
}

// Encrypt serializes v to canonical JSON and envelope-encrypts it.
// A fresh data key and IV are drawn for every call; identical inputs never
// produce identical blobs.
func (e *Engine) Encrypt(v any) (*Blob, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "payload is not serializable")
	}

	dataKey := make([]byte, dataKeySize)
	if _, err := rand.Read(dataKey); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not generate data key")
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not generate IV")
	}

	inner, err := newGCM(dataKey)
	if err != nil {
		return nil, err
	}
	// The full IV rides along as associated data so any IV tampering breaks
	// the tag even though only its first 12 bytes act as the nonce.
	sealed := inner.Seal(nil, iv[:nonceSize], plaintext, iv)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	wrapped, err := e.wrapDataKey(dataKey, iv)
	if err != nil {
		return nil, err
	}

	return &Blob{
		KeyID:          e.master.ID,
		WrappedDataKey: wrapped,
		IV:             iv,
		Tag:            tag,
		Ciphertext:     ciphertext,
	}, nil
}

// Decrypt reverses Encrypt into out. It fails closed: any missing component,
// unknown key id, or tag-verification failure yields a decryption_failed
// domain error and out is left untouched. Partial or garbage plaintext is
// never returned.
func (e *Engine) Decrypt(blob *Blob, out any) error {
	if blob == nil {
		return errDecryption("blob is nil")
	}
	if blob.KeyID != e.master.ID {
		return errDecryption("blob wrapped by unknown master key")
	}
	if len(blob.IV) != ivSize {
		return errDecryption("malformed IV")
	}
	if len(blob.WrappedDataKey) != dataKeySize+tagSize {
		return errDecryption("malformed wrapped data key")
	}
	if len(blob.Tag) != tagSize || len(blob.Ciphertext) == 0 {
		return errDecryption("malformed ciphertext")
	}

	dataKey, err := e.unwrapDataKey(blob.WrappedDataKey, blob.IV)
	if err != nil {
		return err
	}

	inner, err := newGCM(dataKey)
	if err != nil {
		return err
	}
	sealed := make([]byte, 0, len(blob.Ciphertext)+tagSize)
	sealed = append(sealed, blob.Ciphertext...)
	sealed = append(sealed, blob.Tag...)
	plaintext, err := inner.Open(nil, blob.IV[:nonceSize], sealed, blob.IV)
	if err != nil {
		return errDecryption("authentication failed")
	}

	if err := json.Unmarshal(plaintext, out); err != nil {
		return errDecryption("plaintext is not valid JSON")
	}
	return nil
}

// wrapDataKey encrypts the data key under the master key. The wrapping nonce
// is derived deterministically from the IV so it does not need to be stored.
func (e *Engine) wrapDataKey(dataKey, iv []byte) ([]byte, error) {
	nonce := wrapNonce(iv)
	outer, err := newGCM(e.master.key[:])
	if err != nil {
		return nil, err
	}
	return outer.Seal(nil, nonce, dataKey, nonce), nil
}

func (e *Engine) unwrapDataKey(wrapped, iv []byte) ([]byte, error) {
	nonce := wrapNonce(iv)
	outer, err := newGCM(e.master.key[:])
	if err != nil {
		return nil, err
	}
	dataKey, err := outer.Open(nil, nonce, wrapped, nonce)
	if err != nil {
		return nil, errDecryption("data key unwrap failed")
	}
	return dataKey, nil
}

// wrapNonce derives the 12-byte key-wrapping nonce from the IV with
// HKDF-SHA256 under a fixed label.
func wrapNonce(iv []byte) []byte {
	r := hkdf.New(sha256.New, iv, nil, []byte(wrapLabel))
	nonce := make([]byte, nonceSize)
	_, _ = io.ReadFull(r, nonce)
	return nonce
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cipher init failed")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "cipher init failed")
	}
	return gcm, nil
}

func errDecryption(msg string) error {
	return dErrors.New(dErrors.CodeDecryptionFailed, msg)
}
