package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/hashsafe"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hashsafe",
	Short: "Inspect MessagePack data under a security policy",
	Long: `hashsafe decodes MessagePack data into a schema-less object graph,
applying collision-resistant hashing and type-safety rejection to
container keys when the data is untrusted.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The process default policy is supplied only here, at the outer
		// boundary; library code always takes the policy explicitly.
		trusted, _ := cmd.Flags().GetBool("trusted")
		if trusted {
			hashsafe.SetDefaultPolicy(hashsafe.Trusted())
		} else {
			hashsafe.SetDefaultPolicy(hashsafe.Untrusted())
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("trusted", false, "Treat input as trusted (structural hashing, no key rejection)")
}
