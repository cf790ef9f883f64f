package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/peek"
	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/ports"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StatusResponse is the structured result of get_status and set_enabled.
type StatusResponse struct {
	Enabled bool `json:"enabled" jsonschema_description:"Whether debug logging is enabled"`
}

// Server exposes flattening and the enablement flag as MCP tools.
type Server struct {
	store     ports.SettingsStore
	flattener *flatten.Flattener
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithFlattener sets the flattener whose bounds apply when a call does not
// override them.
func WithFlattener(f *flatten.Flattener) Option {
	return func(s *Server) {
		if f != nil {
			s.flattener = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.SettingsStore, opts ...Option) *Server {
	s := &Server{
		store:     store,
		flattener: flatten.New(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("peek-mcp", peek.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: flatten_value
	flattenTool := mcp.NewTool("flatten_value",
		mcp.WithDescription("Flatten a JSON or YAML document into a bounded, cycle-free tree and render it."),
		mcp.WithString("value", mcp.Required(), mcp.Description("The JSON or YAML document to flatten")),
		mcp.WithNumber("max_depth", mcp.Description("Maximum nesting depth (default 10)")),
		mcp.WithNumber("max_items", mcp.Description("Maximum items per collection (default 100)")),
		mcp.WithString("format", mcp.Description("Output notation: json or yaml"), mcp.Enum("json", "yaml")),
	)
	s.mcpServer.AddTool(flattenTool, s.handleFlatten)

	// TOOL: get_status
	s.mcpServer.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Report whether debug logging is enabled."),
		mcp.WithOutputSchema[StatusResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetStatus))

	// TOOL: set_enabled
	s.mcpServer.AddTool(mcp.NewTool("set_enabled",
		mcp.WithDescription("Enable or disable debug logging."),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("The new value of the flag")),
		mcp.WithOutputSchema[StatusResponse](),
	), mcp.NewStructuredToolHandler(s.handleSetEnabled))
}

func (s *Server) handleFlatten(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := transport.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	value, err := transport.Decode([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f := s.flattener
	args := request.GetArguments()
	_, hasDepth := args["max_depth"]
	_, hasItems := args["max_items"]
	if hasDepth || hasItems {
		f = flatten.New(
			flatten.WithMaxDepth(request.GetInt("max_depth", s.flattener.MaxDepth())),
			flatten.WithMaxItems(request.GetInt("max_items", s.flattener.MaxItems())),
			flatten.WithCyclePolicy(s.flattener.Policy()),
		)
	}

	out, err := transport.Encode(format, f.Flatten(value))
	if err != nil {
		return nil, fmt.Errorf("encode failed: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	enabled, err := s.store.Enabled(ctx)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("read settings: %w", err)
	}
	return StatusResponse{Enabled: enabled}, nil
}

func (s *Server) handleSetEnabled(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	enabled, ok := args["enabled"].(bool)
	if !ok {
		return StatusResponse{}, fmt.Errorf("argument %q must be a boolean", "enabled")
	}
	if err := s.store.SetEnabled(ctx, enabled); err != nil {
		return StatusResponse{}, fmt.Errorf("write settings: %w", err)
	}
	s.logger.Info("settings updated via MCP", "enabled", enabled)
	return StatusResponse{Enabled: enabled}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: peek://settings
	s.mcpServer.AddResource(mcp.NewResource("peek://settings", "Debug logging settings",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		enabled, err := s.store.Enabled(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		jsonBytes, _ := json.Marshal(StatusResponse{Enabled: enabled})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "peek://settings",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
