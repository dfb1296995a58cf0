package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIPv4(t *testing.T) {
	assert.Equal(t, "192.168.1.0", AnonymizeIP("192.168.1.47"))
	assert.Equal(t, "10.0.0.0", AnonymizeIP("10.0.0.1"))
}

func TestAnonymizeIPv6KeepsPrefix(t *testing.T) {
	assert.Equal(t, "2001:0db8:85a3::", AnonymizeIP("2001:db8:85a3::8a2e:370:7334"))
}

func TestAnonymizeIPEdgeCases(t *testing.T) {
	assert.Equal(t, "unknown", AnonymizeIP(""))
	assert.Equal(t, "unknown", AnonymizeIP("unknown"))
	assert.Equal(t, "invalid", AnonymizeIP("not-an-ip"))
}

func TestHashIPStableAndAnonymizedFirst(t *testing.T) {
	// Two hosts on the same /24 hash identically.
	assert.Equal(t, HashIP("192.168.1.47"), HashIP("192.168.1.200"))
	assert.NotEqual(t, HashIP("192.168.1.47"), HashIP("192.168.2.47"))
	assert.Len(t, HashIP("192.168.1.47"), 64)
}
