package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orris-inc/permitgate/internal/infrastructure/auth"
	"github.com/orris-inc/permitgate/internal/infrastructure/config"
)

var (
	configPath string
	actorID    uint
	ttl        time.Duration
)

// NewCommand mints an actor token with the configured gateway key, for local
// testing without the gateway in front.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an actor token",
		Long:  `Sign a bearer token for a directory person with auth.jwt.secret, the way the upstream gateway does.`,
		RunE:  runToken,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().UintVarP(&actorID, "actor", "a", 0, "Directory id of the actor")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(viper.New(), "", configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if actorID == 0 {
		return fmt.Errorf("--actor must be a directory id")
	}

	token, err := auth.NewJWTService(cfg.Auth.JWT, nil).Sign(actorID, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
