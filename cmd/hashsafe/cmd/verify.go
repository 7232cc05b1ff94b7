package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/hashsafe"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Check that a MessagePack file decodes under the selected policy",
	Long: `Decode a MessagePack file under the selected policy, re-encode the
result, and report the outcome. A type safety rejection exits non-zero.

Example:
  hashsafe verify payload.msgpack`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		policy := hashsafe.DefaultPolicy()
		v, err := hashsafe.Unmarshal(data, policy)
		if err != nil {
			if errors.Is(err, hashsafe.ErrTypeSafety) {
				return fmt.Errorf("rejected under %s policy: %w", policyName(policy), err)
			}
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}

		encoded, err := hashsafe.Marshal(v)
		if err != nil {
			return fmt.Errorf("re-encoding %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d bytes in, %d bytes re-encoded under %s policy\n",
			len(data), len(encoded), policyName(policy))
		return nil
	},
}

func policyName(p *hashsafe.Policy) string {
	if p.HashCollisionResistant() {
		return "untrusted"
	}
	return "trusted"
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
