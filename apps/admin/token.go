package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
)

// tokenCmd issues API tokens for local use and scripts.
func (cli *commandLine) tokenCmd() *cobra.Command {
	var (
		subject, username, email string
		admin                    bool
		ttl                      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a teacher (or admin) API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subject == "" {
				return helpOrErr(cmd)
			}
			claims := echoapi.NewClaims(cli.conf, subject, username, email, admin, ttl)
			token, err := echoapi.GenerateToken(cli.conf, claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.stdout(), token)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&subject, "subject", "", "ID of the token owner")
	fs.StringVar(&username, "username", "", "username of the token owner")
	fs.StringVar(&email, "email", "", "email of the token owner")
	fs.BoolVar(&admin, "admin", false, "issue an admin token")
	fs.DurationVar(&ttl, "ttl", 24*time.Hour, "validity of the token")
	return cmd
}
