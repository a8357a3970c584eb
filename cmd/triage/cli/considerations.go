package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const considerations = `
ZERO-SHOT:
✓ Fastest (1 API call, minimal tokens)
✓ Cheapest
✗ Less consistent on edge cases
✗ No control over output format
→ Best for: Simple, well-defined tasks

FEW-SHOT:
✓ More consistent outputs
✓ Better format control
✓ Handles edge cases better
✗ Uses more input tokens (examples in every call)
✗ Still just 1 API call
→ Best for: Production classification, formatting needs

CHAIN OF THOUGHT:
✓ Transparent reasoning
✓ Better accuracy on complex decisions
✓ Easier to debug
✗ Slower (more output tokens)
✗ Costs more
→ Best for: Complex analysis, debugging, explainability
`

var considerationsCmd = &cobra.Command{
	Use:   "considerations",
	Short: "Print the production trade-offs of each technique",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printConsiderations(cmd.OutOrStdout())
	},
}

func printConsiderations(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, headerStyle.Sprint("PRODUCTION CONSIDERATIONS:"))
	fmt.Fprintln(w, banner)
	fmt.Fprint(w, considerations)
}

func init() {
	rootCmd.AddCommand(considerationsCmd)
}
