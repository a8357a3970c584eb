// Package mcpserver exposes email classification as Model Context Protocol
// tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName = "triage"

	ToolClassify   = "classify_email"
	ToolCategories = "list_categories"
)

// Options configures a Server.
type Options struct {
	Classifier *triage.Classifier
	// Strategies available to callers, keyed by kind. Kinds missing here
	// fall back to their defaults.
	Strategies []*triage.Strategy
	Version    string
	Logger     log.Logger
}

// Server answers classification tool calls.
type Server struct {
	classifier *triage.Classifier
	strategies map[triage.StrategyKind]*triage.Strategy
	version    string
	logger     log.Logger
}

// New returns a server for the given classifier.
func New(opts Options) (*Server, error) {
	if opts.Classifier == nil {
		return nil, fmt.Errorf("mcpserver: classifier is required")
	}
	s := &Server{
		classifier: opts.Classifier,
		strategies: map[triage.StrategyKind]*triage.Strategy{},
		version:    opts.Version,
		logger:     opts.Logger,
	}
	if s.version == "" {
		s.version = "dev"
	}
	if s.logger == nil {
		s.logger = log.NewNullLogger()
	}
	for _, kind := range triage.StrategyKinds {
		s.strategies[kind] = triage.DefaultStrategy(kind)
	}
	for _, strategy := range opts.Strategies {
		if strategy != nil {
			s.strategies[strategy.Kind()] = strategy
		}
	}
	return s, nil
}

// Tools returns the tool definitions the server registers.
func (s *Server) Tools() []mcp.Tool {
	kinds := make([]string, len(triage.StrategyKinds))
	for i, kind := range triage.StrategyKinds {
		kinds[i] = kind.String()
	}
	return []mcp.Tool{
		mcp.NewTool(ToolClassify,
			mcp.WithDescription("Classify a customer support email into Billing Issue, Technical Problem, "+
				"Feature Request, Sales or General Inquiry. The chain_of_thought strategy also "+
				"reports urgency, sentiment and the main issue."),
			mcp.WithString("email",
				mcp.Required(),
				mcp.Description("The full email text"),
			),
			mcp.WithString("strategy",
				mcp.Description("Prompting technique to use"),
				mcp.Enum(kinds...),
				mcp.DefaultString(triage.ZeroShot.String()),
			),
		),
		mcp.NewTool(ToolCategories,
			mcp.WithDescription("List the categories an email can be assigned"),
		),
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(ServerName, s.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools := s.Tools()
	srv.AddTool(tools[0], s.HandleClassify)
	srv.AddTool(tools[1], s.HandleCategories)
	return srv
}

// ServeStdio serves the tools over standard input and output until the
// client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCPServer())
}

// HandleClassify runs one classification. Invalid input, completion
// failures and unparseable answers are reported as tool errors so the
// calling model can see them.
func (s *Server) HandleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := req.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := triage.ParseStrategyKind(req.GetString("strategy", triage.ZeroShot.String()))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ctx = log.WithLogger(ctx, s.logger.With("tool", ToolClassify))
	result, err := s.classifier.Classify(ctx, s.strategies[kind], email)
	if err != nil {
		s.logger.Warn("classification failed", "strategy", kind.String(), "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(body)), nil
}

// HandleCategories lists the category labels, one per line.
func (s *Server) HandleCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lines := make([]string, len(triage.Categories))
	for i, category := range triage.Categories {
		lines[i] = category.Slug() + ": " + category.Label()
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
