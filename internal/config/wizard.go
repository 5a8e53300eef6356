package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/pvekit/pvekit/internal/util/ptr"
)

// Auth methods offered by the wizard.
const (
	AuthToken    = "token"
	AuthPassword = "password"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	Cluster          string
	Host             string
	Port             string
	User             string
	AuthMethod       string
	TokenID          string
	TokenSecret      string
	Password         string
	ValidateCerts    bool
	StoreCredentials bool
}

// RunWizard runs the interactive manifest wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		Port:          "8006",
		User:          "root@pam",
		AuthMethod:    AuthToken,
		ValidateCerts: true,
	}

	form := huh.NewForm(
		// Cluster identity
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster name").
				Description("A free-form name used in logs and the inventory").
				Placeholder("homelab").
				Value(&result.Cluster).
				Validate(validateWizardName),
		),

		// API endpoint
		huh.NewGroup(
			huh.NewInput().
				Title("API host").
				Description("Hostname or IP of a Proxmox VE node").
				Placeholder("pve.example.com").
				Value(&result.Host).
				Validate(validateWizardHost),

			huh.NewInput().
				Title("API port").
				Value(&result.Port).
				Validate(validateWizardPort),
		),

		// Authentication
		huh.NewGroup(
			huh.NewInput().
				Title("API user").
				Description("Realm-qualified user, e.g. root@pam or automation@pve").
				Value(&result.User).
				Validate(validateWizardUser),

			huh.NewSelect[string]().
				Title("Authentication method").
				Description("API tokens are revocable and do not expire with the ticket").
				Options(
					huh.NewOption("API token (recommended)", AuthToken),
					huh.NewOption("Password", AuthPassword),
				).
				Value(&result.AuthMethod),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Token ID").
				Placeholder("pvekit").
				Value(&result.TokenID),

			huh.NewInput().
				Title("Token secret").
				EchoMode(huh.EchoModePassword).
				Value(&result.TokenSecret),
		).WithHideFunc(func() bool { return result.AuthMethod != AuthToken }),

		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.Password),
		).WithHideFunc(func() bool { return result.AuthMethod != AuthPassword }),

		// TLS and credential storage
		huh.NewGroup(
			huh.NewConfirm().
				Title("Validate TLS certificates?").
				Description("Disable only for self-signed certificates on trusted networks").
				Value(&result.ValidateCerts),

			huh.NewConfirm().
				Title("Store credentials in the manifest?").
				Description("Otherwise export PROXMOX_* environment variables before each run").
				Value(&result.StoreCredentials),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToManifest converts the wizard result into a starter manifest.
func (r *WizardResult) ToManifest() *Manifest {
	conn := &Connection{
		Host: r.Host,
		User: r.User,
	}
	if port, err := strconv.Atoi(r.Port); err == nil && port != 8006 {
		conn.Port = port
	}
	if !r.ValidateCerts {
		conn.ValidateCerts = ptr.Bool(false)
	}
	if r.StoreCredentials {
		switch r.AuthMethod {
		case AuthToken:
			conn.TokenID = r.TokenID
			conn.TokenSecret = r.TokenSecret
		case AuthPassword:
			conn.Password = r.Password
		}
	}

	return &Manifest{
		Cluster:    r.Cluster,
		Connection: conn,
	}
}

// WriteManifestYAML writes a manifest to path atomically. The file is
// created with mode 0600 because it may carry credentials.
func WriteManifestYAML(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	header := "# pvekit cluster manifest. Declare the desired state of your\n" +
		"# Proxmox VE cluster here and run 'pvekit apply'.\n"
	if err := renameio.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func validateWizardName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cluster name is required")
	}
	return nil
}

func validateWizardHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("api host is required")
	}
	if strings.Contains(s, "://") {
		return fmt.Errorf("use the bare hostname, without a scheme")
	}
	return nil
}

func validateWizardPort(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validateWizardUser(s string) error {
	if !strings.Contains(s, "@") {
		return fmt.Errorf("user must include a realm, e.g. root@pam")
	}
	return nil
}
