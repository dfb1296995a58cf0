//go:build !devbypass

package service

// devBypassEnabled controls whether the reserved all-zero user id is treated
// as always-consented. Production builds compile this to a constant false;
// the bypass only exists in binaries built with -tags devbypass. Keeping the
// switch at the build level (not an environment flag) makes it impossible to
// enable in a deployed binary.
const devBypassEnabled = false
