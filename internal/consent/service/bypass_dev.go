//go:build devbypass

package service

// devBypassEnabled treats the reserved all-zero user id as always-consented.
// For local development and fixtures only; see bypass.go.
const devBypassEnabled = true
