// Package config manages application configuration for the packing list API.
//
// Configuration is parsed from environment variables into tagged structs
// with github.com/caarlos0/env. cmd/server loads an optional .env file
// first.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: port, environment, timeouts, CORS origins
//   - DatabaseConfig: SurrealDB endpoint and credentials
//   - JWTConfig: HS256 secret, token lifetime, issuer
//   - RateLimitConfig, IdempotencyConfig: middleware tuning
//   - PackListConfig: owner link timeout and transactional ownership
//   - TelemetryConfig: OTLP trace export
//
// # Environment Variables
//
//	PORT                        - HTTP port (default: 8080)
//	SERVER_ENV                  - development, production or test
//	CLIENT_ORIGIN               - comma-separated CORS origins
//	DB_HOST, DB_PORT            - SurrealDB endpoint (localhost:8000)
//	DB_NAMESPACE, DB_DATABASE   - SurrealDB scope (packlist/main)
//	DB_USER, DB_PASSWORD        - SurrealDB credentials
//	JWT_SECRET                  - signing key, required in production
//	JWT_EXPIRY                  - token lifetime (default: 168h)
//	PACKLIST_ATOMIC_OWNERSHIP   - write list and owner link in one transaction
//	OTEL_EXPORTER_OTLP_ENDPOINT - enables tracing when set
//	LOG_LEVEL                   - debug, info, warn or error
//
// Validate reports every problem at once, joined with errors.Join.
package config
