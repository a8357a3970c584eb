package cli

import (
	"github.com/deepnoodle-ai/triage/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the classify_email tool over stdio for MCP clients",
	Long: `Serve classification as Model Context Protocol tools over standard input
and output. Configure it in an MCP client as a command server:

  {"command": "triage", "args": ["mcp", "--provider", "groq"]}

Logs go to stderr; keep --log-level at warn or above so they stay out of the
client's way.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		strategies, err := s.config.AllStrategies()
		if err != nil {
			return err
		}
		server, err := mcpserver.New(mcpserver.Options{
			Classifier: s.classifier,
			Strategies: strategies,
			Version:    Version,
			Logger:     s.logger,
		})
		if err != nil {
			return err
		}
		return server.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
