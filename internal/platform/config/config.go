package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the privacy gateway.
type Server struct {
	Addr            string
	MasterKeyHex    string
	PolicyVersion   string
	DefaultRegion   string
	BlockExternal   bool
	PortalTokenKey  string
	AdminToken      string
	DatabaseURL     string
	RedisURL        string
	KafkaBrokers    string
	EventsTopic     string
	ShutdownTimeout time.Duration

	// Provider region-compliance flags. A provider without the flag for a
	// regulated region is routed to the local model instead.
	OpenAIEUCompliant    bool
	AnthropicUSCompliant bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
// MASTER_KEY_HEX is intentionally not validated here; crypto.LoadMasterKey
// owns that and fails the process with a configuration error.
func FromEnv() Server {
	addr := os.Getenv("PRIVACY_GATEWAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	policyVersion := os.Getenv("POLICY_VERSION")
	if policyVersion == "" {
		policyVersion = "2025-01"
	}

	region := os.Getenv("PRIVACY_DEFAULT_REGION")
	if region == "" {
		region = "IN"
	}

	return Server{
		Addr:                 addr,
		MasterKeyHex:         os.Getenv("MASTER_KEY_HEX"),
		PolicyVersion:        policyVersion,
		DefaultRegion:        region,
		BlockExternal:        boolEnv("PRIVACY_BLOCK_EXTERNAL_LLM"),
		PortalTokenKey:       os.Getenv("PORTAL_TOKEN_KEY"),
		AdminToken:           os.Getenv("ADMIN_TOKEN"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		KafkaBrokers:         os.Getenv("KAFKA_BROKERS"),
		EventsTopic:          os.Getenv("PRIVACY_EVENTS_TOPIC"),
		ShutdownTimeout:      10 * time.Second,
		OpenAIEUCompliant:    boolEnv("OPENAI_EU_COMPLIANT"),
		AnthropicUSCompliant: boolEnv("ANTHROPIC_US_COMPLIANT"),
	}
}

func boolEnv(name string) bool {
	v := os.Getenv(name)
	return v == "true" || v == "1"
}
