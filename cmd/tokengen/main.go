// Package main provides a CLI tool for minting portal tokens against a local
// privacy gateway. Tokens are signed with whatever key you pass (or
// PORTAL_TOKEN_KEY), so they only work against a gateway configured with the
// same key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"privacygate/pkg/secrets"
)

const defaultTokenTTL = 15 * time.Minute

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in,omitempty"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	portalCmd := flag.NewFlagSet("portal", flag.ExitOnError)
	keyCmd := flag.NewFlagSet("key", flag.ExitOnError)

	portalUserID := portalCmd.String("user-id", "", "User ID (UUID). Generated if empty.")
	portalKey := portalCmd.String("key", "", "Signing key. Defaults to PORTAL_TOKEN_KEY.")
	portalTTL := portalCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	portalJSON := portalCmd.Bool("json", false, "Output as JSON")

	keyJSON := keyCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "portal":
		portalCmd.Parse(os.Args[2:])
		generatePortalToken(*portalUserID, *portalKey, *portalTTL, *portalJSON)
	case "key":
		keyCmd.Parse(os.Args[2:])
		generateKey(*keyJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Mint portal tokens for the privacy gateway

Usage:
  tokengen <command> [flags]

Commands:
  portal    Mint a portal token (HS256 JWT) for a user
  key       Generate a random secret for PORTAL_TOKEN_KEY or ADMIN_TOKEN

Examples:
  # Mint a portal token for a random user with the key from the environment
  PORTAL_TOKEN_KEY=... tokengen portal

  # Mint a token for a specific user with a 1h lifetime
  tokengen portal -user-id "550e8400-e29b-41d4-a716-446655440000" -ttl 1h

  # Generate a fresh signing key
  tokengen key

  # Output as JSON
  tokengen portal -json

Use "tokengen <command> -h" for more information about a command.`)
}

func generatePortalToken(userID, key string, ttl time.Duration, jsonOutput bool) {
	if key == "" {
		key = os.Getenv("PORTAL_TOKEN_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "No signing key: pass -key or set PORTAL_TOKEN_KEY")
		os.Exit(1)
	}

	uid := parseOrGenerateUUID(userID, "user-id")
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   uid.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "portal_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"sub": uid.String(),
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
	} else {
		fmt.Println("Portal Token (JWT)")
		fmt.Println("==================")
		fmt.Printf("User ID:    %s\n", uid)
		fmt.Printf("Expires In: %s\n", ttl)
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/privacy/consent")
	}
}

func generateKey(jsonOutput bool) {
	secret, err := secrets.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating secret: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token: secret,
			Type:  "secret",
			Usage: map[string]string{
				"env": "PORTAL_TOKEN_KEY or ADMIN_TOKEN",
			},
		})
	} else {
		fmt.Println("Secret")
		fmt.Println("======")
		fmt.Println(secret)
		fmt.Println()
		fmt.Println("Use as PORTAL_TOKEN_KEY for portal tokens or ADMIN_TOKEN for operator calls.")
	}
}

func parseOrGenerateUUID(input, fieldName string) uuid.UUID {
	if input == "" {
		return uuid.New()
	}
	parsed, err := uuid.Parse(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s UUID: %s\n", fieldName, input)
		os.Exit(1)
	}
	return parsed
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
