package config

import "github.com/urfave/cli/v3"

// Dispatch holds routing configuration: which repository's webhooks are
// accepted, where dispatch events go, and which routing policy applies
type Dispatch struct {
	UpstreamRepo string
	TargetOwner  string
	TargetRepo   string
	Policy       string
}

// Flags returns CLI flags for dispatch configuration
func (c *Dispatch) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "upstream-repo",
			Usage:       "Full name of the repository whose webhooks are accepted",
			Value:       "electron/electron",
			Destination: &c.UpstreamRepo,
			Sources:     cli.EnvVars("UPDATER_UPSTREAM_REPO"),
		},
		&cli.StringFlag{
			Name:        "target-owner",
			Usage:       "Owner of the repository receiving dispatch events",
			Value:       "electron",
			Destination: &c.TargetOwner,
			Sources:     cli.EnvVars("UPDATER_TARGET_OWNER"),
		},
		&cli.StringFlag{
			Name:        "target-repo",
			Usage:       "Name of the repository receiving dispatch events",
			Value:       "website",
			Destination: &c.TargetRepo,
			Sources:     cli.EnvVars("UPDATER_TARGET_REPO"),
		},
		&cli.StringFlag{
			Name:        "routing-policy",
			Usage:       "Routing policy for docs pushes (dual, guarded, single)",
			Value:       "guarded",
			Destination: &c.Policy,
			Sources:     cli.EnvVars("UPDATER_ROUTING_POLICY"),
		},
	}
}
