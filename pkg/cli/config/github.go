package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub App credentials and webhook configuration
type GitHub struct {
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
	PrivateKey     string `masq:"secret"`
	WebhookSecret  string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Required:    true,
			Destination: &c.AppID,
			Sources:     cli.EnvVars("UPDATER_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Required:    true,
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("UPDATER_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-path",
			Usage:       "Path to the GitHub App private key PEM file",
			Destination: &c.PrivateKeyPath,
			Sources:     cli.EnvVars("UPDATER_GITHUB_PRIVATE_KEY_PATH"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key PEM content",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("UPDATER_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret (empty disables signature verification)",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("UPDATER_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// LoadPrivateKey returns the App private key, from the inline value or
// from the configured file path.
func (c *GitHub) LoadPrivateKey() ([]byte, error) {
	if c.PrivateKey != "" {
		return []byte(c.PrivateKey), nil
	}

	if c.PrivateKeyPath == "" {
		return nil, goerr.New("either github-private-key or github-private-key-path is required")
	}

	key, err := os.ReadFile(c.PrivateKeyPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read private key", goerr.V("path", c.PrivateKeyPath))
	}

	return key, nil
}
