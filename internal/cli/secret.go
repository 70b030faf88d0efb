package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/taflgame/internal/services/credential"
)

func newHashSecretCmd() *cobra.Command {
	var scheme string
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-secret [secret]",
		Short: "Hash a game secret for TAFL_SECRET_HASH",
		Long: `Hash a game secret for the server's TAFL_SECRET_HASH setting. The secret
is read from the first line of stdin when not given as an argument.`,
		Args: cobra.MaximumNArgs(1),
		// No server involved
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var secret string
			if len(args) == 1 {
				secret = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read secret: %w", err)
				}
				secret = strings.TrimRight(line, "\r\n")
			}
			if secret == "" {
				return errors.New("secret must not be empty")
			}

			hash, err := credential.HashSecret(secret, scheme, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheme, "scheme", credential.SchemePBKDF2, "Hash scheme: pbkdf2-sha256, bcrypt, sha256-crypt")
	cmd.Flags().IntVar(&cost, "cost", 0, "Rounds for pbkdf2-sha256 and sha256-crypt or cost for bcrypt (0 for the default)")
	return cmd
}
