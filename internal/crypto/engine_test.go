package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "privacygate/pkg/domain-errors"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineSuite) SetupTest() {
	mk, err := LoadMasterKey(testKeyHex)
	s.Require().NoError(err)
	s.engine = NewEngine(mk)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func TestLoadMasterKey(t *testing.T) {
	t.Run("valid 64-char hex key", func(t *testing.T) {
		mk, err := LoadMasterKey(testKeyHex)
		require.NoError(t, err)
		assert.Equal(t, CurrentKeyID, mk.ID)
	})

	t.Run("empty key is a configuration error", func(t *testing.T) {
		_, err := LoadMasterKey("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("non-hex key is a configuration error", func(t *testing.T) {
		_, err := LoadMasterKey(strings.Repeat("zz", 32))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	t.Run("short key is a configuration error", func(t *testing.T) {
		_, err := LoadMasterKey("deadbeef")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}

func (s *EngineSuite) TestRoundTrip() {
	type profile struct {
		Email string         `json:"email"`
		Phone string         `json:"phone"`
		Tags  []string       `json:"tags"`
		Meta  map[string]any `json:"meta"`
	}
	in := profile{
		Email: "candidate@example.com",
		Phone: "+1 555 123 4567",
		Tags:  []string{"resume", "draft"},
		Meta:  map[string]any{"years": float64(7), "remote": true},
	}

	blob, err := s.engine.Encrypt(in)
	s.Require().NoError(err)
	s.Equal(CurrentKeyID, blob.KeyID)
	s.Len(blob.IV, 16)
	s.Len(blob.Tag, 16)
	s.Len(blob.WrappedDataKey, 48)

	var out profile
	s.Require().NoError(s.engine.Decrypt(blob, &out))
	s.Equal(in, out)
}

func (s *EngineSuite) TestFreshRandomnessPerCall() {
	payload := map[string]string{"email": "same@example.com"}

	first, err := s.engine.Encrypt(payload)
	s.Require().NoError(err)
	second, err := s.engine.Encrypt(payload)
	s.Require().NoError(err)

	s.NotEqual(first.WrappedDataKey, second.WrappedDataKey, "data keys must never repeat")
	s.NotEqual(first.Ciphertext, second.Ciphertext, "ciphertext must never repeat")
	s.NotEqual(first.IV, second.IV)
}

// TestTamperDetection flips a single bit in each stored component and
// verifies decryption fails closed rather than returning altered plaintext.
func (s *EngineSuite) TestTamperDetection() {
	original := map[string]string{"ssn": "123-45-6789"}

	components := []struct {
		name   string
		mutate func(*Blob)
	}{
		{"ciphertext", func(b *Blob) { b.Ciphertext[0] ^= 0x01 }},
		{"tag", func(b *Blob) { b.Tag[0] ^= 0x01 }},
		{"wrapped data key", func(b *Blob) { b.WrappedDataKey[0] ^= 0x01 }},
		{"iv", func(b *Blob) { b.IV[0] ^= 0x01 }},
	}

	for _, tc := range components {
		s.Run(tc.name, func() {
			blob, err := s.engine.Encrypt(original)
			s.Require().NoError(err)
			tc.mutate(blob)

			var out map[string]string
			err = s.engine.Decrypt(blob, &out)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeDecryptionFailed))
			s.Empty(out, "no partial plaintext may leak")
		})
	}
}

func (s *EngineSuite) TestMalformedBlobs() {
	blob, err := s.engine.Encrypt("payload")
	s.Require().NoError(err)

	cases := []struct {
		name   string
		mutate func(*Blob)
	}{
		{"nil blob", nil},
		{"missing iv", func(b *Blob) { b.IV = nil }},
		{"truncated wrapped key", func(b *Blob) { b.WrappedDataKey = b.WrappedDataKey[:10] }},
		{"missing tag", func(b *Blob) { b.Tag = nil }},
		{"empty ciphertext", func(b *Blob) { b.Ciphertext = nil }},
		{"unknown key id", func(b *Blob) { b.KeyID = "v2" }},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			var target *Blob
			if tc.mutate != nil {
				clone := *blob
				clone.IV = append([]byte(nil), blob.IV...)
				clone.Tag = append([]byte(nil), blob.Tag...)
				clone.WrappedDataKey = append([]byte(nil), blob.WrappedDataKey...)
				clone.Ciphertext = append([]byte(nil), blob.Ciphertext...)
				tc.mutate(&clone)
				target = &clone
			}

			var out string
			err := s.engine.Decrypt(target, &out)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeDecryptionFailed))
		})
	}
}

func (s *EngineSuite) TestWrongMasterKeyFails() {
	blob, err := s.engine.Encrypt(map[string]string{"k": "v"})
	s.Require().NoError(err)

	other, err := LoadMasterKey(strings.Repeat("ff", 32))
	s.Require().NoError(err)

	var out map[string]string
	err = NewEngine(other).Decrypt(blob, &out)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDecryptionFailed))
}
