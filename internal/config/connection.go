package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Connection holds everything needed to reach a Proxmox VE API endpoint.
// Values are read from the environment; non-zero manifest values override
// them afterwards via Merge.
type Connection struct {
	Host          string        `env:"PROXMOX_HOST" yaml:"host" mapstructure:"host"`
	Port          int           `env:"PROXMOX_PORT" envDefault:"8006" yaml:"port" mapstructure:"port"`
	User          string        `env:"PROXMOX_USER" yaml:"user" mapstructure:"user"`
	Password      string        `env:"PROXMOX_PASSWORD" yaml:"password" mapstructure:"password"`
	TokenID       string        `env:"PROXMOX_TOKEN_ID" yaml:"token_id" mapstructure:"token_id"`
	TokenSecret   string        `env:"PROXMOX_TOKEN_SECRET" yaml:"token_secret" mapstructure:"token_secret"`
	ValidateCerts *bool         `env:"PROXMOX_VALIDATE_CERTS" yaml:"validate_certs" mapstructure:"validate_certs"`
	CAPath        string        `env:"PROXMOX_CA_PATH" yaml:"ca_path" mapstructure:"ca_path"`
	Timeout       time.Duration `env:"PROXMOX_API_TIMEOUT" envDefault:"30s" yaml:"timeout" mapstructure:"timeout"`
}

// ConnectionFromEnv builds a Connection from PROXMOX_* environment variables.
func ConnectionFromEnv() (*Connection, error) {
	var conn Connection
	if err := env.Parse(&conn); err != nil {
		return nil, fmt.Errorf("parse connection environment: %w", err)
	}
	return &conn, nil
}

// Merge overlays non-zero fields of other onto c. Manifest-provided values
// win over environment fallbacks, matching how explicit task parameters
// beat env defaults in the original tooling.
func (c *Connection) Merge(other *Connection) {
	if other == nil {
		return
	}
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.User != "" {
		c.User = other.User
	}
	if other.Password != "" {
		c.Password = other.Password
	}
	if other.TokenID != "" {
		c.TokenID = other.TokenID
	}
	if other.TokenSecret != "" {
		c.TokenSecret = other.TokenSecret
	}
	if other.ValidateCerts != nil {
		c.ValidateCerts = other.ValidateCerts
	}
	if other.CAPath != "" {
		c.CAPath = other.CAPath
	}
	if other.Timeout != 0 {
		c.Timeout = other.Timeout
	}
}

// UseTokenAuth reports whether API token authentication is configured.
func (c *Connection) UseTokenAuth() bool {
	return c.TokenID != "" && c.TokenSecret != ""
}

// VerifyTLS reports whether server certificates should be validated.
// Defaults to true when unset.
func (c *Connection) VerifyTLS() bool {
	return c.ValidateCerts == nil || *c.ValidateCerts
}

// Validate checks that the connection settings are usable.
func (c *Connection) Validate() error {
	if c.Host == "" {
		return errors.New("api host is required (set PROXMOX_HOST or connection.host)")
	}
	if c.User == "" {
		return errors.New("api user is required (set PROXMOX_USER or connection.user)")
	}
	if c.Password == "" && !c.UseTokenAuth() {
		return errors.New("either a password or an api token (id and secret) is required")
	}
	if (c.TokenID == "") != (c.TokenSecret == "") {
		return errors.New("token_id and token_secret must be provided together")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid api port %d", c.Port)
	}
	return nil
}
