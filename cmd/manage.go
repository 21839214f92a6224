package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var superuserMobile, superuserPassword string

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a staff superuser",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if superuserMobile == "" || superuserPassword == "" {
			return errors.New("--mobile and --password are required")
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		user, err := a.credentials().CreateSuperuser(cmd.Context(), superuserMobile, superuserPassword)
		if err != nil {
			return err
		}
		log.Info().Str("user", user.UUID.String()).Str("mobile", user.Mobile).Msg("superuser created")
		fmt.Fprintf(cmd.OutOrStdout(), "Superuser created: %s\n", user.UUID)
		return nil
	},
}

var flushExpiredTokensCmd = &cobra.Command{
	Use:   "flushexpiredtokens",
	Short: "Delete blacklisted tokens that have already expired",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		n, err := a.tokens.FlushExpired(cmd.Context())
		if err != nil {
			return err
		}
		log.Info().Int64("deleted", n).Msg("expired tokens flushed")
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired tokens\n", n)
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserMobile, "mobile", "", "mobile number, e.g. +82-1012345678")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "password")
}
