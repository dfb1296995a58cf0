package crypto

import (
	"encoding/hex"

	dErrors "privacygate/pkg/domain-errors"
)

// CurrentKeyID labels the active master key. Every blob records the key id
// that wrapped its data key, so introducing a second key later is an additive
// change rather than a migration.
const CurrentKeyID = "v1"

const masterKeyBytes = 32

// MasterKey is the process-wide key-encryption key. It is loaded once at
// startup from configuration and injected into the Engine; it is never read
// from the environment per call and never mutated afterwards.
type MasterKey struct {
	ID  string
	key [masterKeyBytes]byte
}

// LoadMasterKey decodes a 64-character hex secret into a MasterKey.
// Any malformed input is a configuration error: the caller is expected to
// fail the process rather than serve vault operations without a valid key.
func LoadMasterKey(hexKey string) (MasterKey, error) {
	if hexKey == "" {
		return MasterKey{}, dErrors.New(dErrors.CodeConfiguration, "MASTER_KEY_HEX is not set")
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return MasterKey{}, dErrors.Wrap(err, dErrors.CodeConfiguration, "MASTER_KEY_HEX is not valid hex")
	}
	if len(raw) != masterKeyBytes {
		return MasterKey{}, dErrors.New(dErrors.CodeConfiguration, "MASTER_KEY_HEX must decode to exactly 32 bytes")
	}
	mk := MasterKey{ID: CurrentKeyID}
	copy(mk.key[:], raw)
	return mk, nil
}
