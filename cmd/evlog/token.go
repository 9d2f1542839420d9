package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/eventlog/internal/config"
	"github.com/alfredjeanlab/eventlog/internal/identity"
)

var tokenCmd = &cobra.Command{
	Use:     "token",
	Short:   "Issue a bearer token for the HTTP and gRPC APIs",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, _ := cmd.Flags().GetString("secret")
		user, _ := cmd.Flags().GetInt64("user")
		as, _ := cmd.Flags().GetInt64("impersonator")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if secret == "" {
			return fmt.Errorf("--secret or %sAUTH_SECRET is required", config.Prefix)
		}

		var id identity.Identity
		if user != 0 {
			id = identity.User(user)
		}
		if as != 0 {
			id.ImpersonatorID = &as
		}

		token, err := identity.NewVerifier(secret).Issue(id, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("secret", os.Getenv(config.Prefix+"AUTH_SECRET"), "HS256 signing secret")
	tokenCmd.Flags().Int64("user", 0, "acting user id (default system)")
	tokenCmd.Flags().Int64("impersonator", 0, "id of the user impersonating --user")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime (0 for no expiry)")
}
