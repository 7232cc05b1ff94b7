package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/hashsafe"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode a MessagePack file and print the object graph",
	Long: `Decode a MessagePack file into a schema-less object graph under the
selected policy and print it.

Example:
  hashsafe inspect payload.msgpack
  hashsafe inspect --trusted payload.msgpack`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		v, err := hashsafe.Unmarshal(data, hashsafe.DefaultPolicy())
		if err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}

		printValue(cmd.OutOrStdout(), v, 0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// printValue renders a decoded graph with two-space indentation. Map entries
// are sorted by the formatted key so output is stable across runs.
func printValue(w io.Writer, v any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t := v.(type) {
	case *hashsafe.Map:
		fmt.Fprintf(w, "%smap (%d entries):\n", indent, t.Len())
		type entry struct {
			label string
			value any
		}
		entries := make([]entry, 0, t.Len())
		t.Range(func(key, value any) bool {
			entries = append(entries, entry{label: fmt.Sprintf("%v", key), value: value})
			return true
		})
		sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s:\n", indent, e.label)
			printValue(w, e.value, depth+2)
		}
	case []any:
		fmt.Fprintf(w, "%sarray (%d items):\n", indent, len(t))
		for _, item := range t {
			printValue(w, item, depth+1)
		}
	case []byte:
		fmt.Fprintf(w, "%sbin (%d bytes)\n", indent, len(t))
	case string:
		fmt.Fprintf(w, "%s%q\n", indent, t)
	default:
		fmt.Fprintf(w, "%s%v\n", indent, t)
	}
}
