package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fixetime/fixetime/internal/google"
	"github.com/fixetime/fixetime/internal/instrumentation"
	"github.com/fixetime/fixetime/internal/resources"
	"github.com/fixetime/fixetime/internal/rules"
	"github.com/fixetime/fixetime/internal/schedule"
	"github.com/fixetime/fixetime/internal/server"
	"github.com/fixetime/fixetime/internal/tools/calendar_tools"
	"github.com/fixetime/fixetime/internal/tools/google_tools"
	"github.com/fixetime/fixetime/internal/tools/schedule_tools"
	"github.com/fixetime/fixetime/internal/tools/tasks_tools"
	"github.com/fixetime/fixetime/internal/tools/triage_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		transport        string
		httpAddr         string
		yolo             bool
		disableStreaming bool
		rulesFile        string
		// Scheduling window configuration
		workStartHour  int
		workEndHour    int
		minSlotMinutes int
		lookaheadDays  int
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide email triage,
calendar scheduling, and follow-up task tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (archiving mail, blocking calendar slots,
  creating tasks, etc.)

Google OAuth:
  Client credentials come from FIXETIME_GOOGLE_CLIENT_ID and
  FIXETIME_GOOGLE_CLIENT_SECRET. Tokens are stored per account under
  ~/.cache/fixetime/ and obtained via the google_get_auth_url and
  google_save_auth_code tools.

Triage rules:
  --rules-file points at a JSON file with always_important, always_ignore
  and urgent_keywords lists. Can also use FIXETIME_RULES_FILE env var.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleConfig := schedule.Config{
				WorkStartHour:    workStartHour,
				WorkEndHour:      workEndHour,
				MinSlotMinutes:   minSlotMinutes,
				LookaheadDays:    lookaheadDays,
				MaxLookaheadDays: schedule.DefaultMaxLookaheadDays,
			}

			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}

			return runServe(transport, httpAddr, yolo, disableStreaming, rulesFile, scheduleConfig, metricsConfig)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (archiving mail, blocking slots, creating tasks). Default is read-only mode.")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().StringVar(&rulesFile, "rules-file", "", "Path to a JSON triage rules file. Can also use FIXETIME_RULES_FILE env var.")

	// Scheduling window flags
	cmd.Flags().IntVar(&workStartHour, "work-start-hour", schedule.DefaultWorkStartHour, "Start of the schedulable working day (local hour). Can also use FIXETIME_WORK_START_HOUR env var.")
	cmd.Flags().IntVar(&workEndHour, "work-end-hour", schedule.DefaultWorkEndHour, "End of the schedulable working day (local hour). Can also use FIXETIME_WORK_END_HOUR env var.")
	cmd.Flags().IntVar(&minSlotMinutes, "min-slot-minutes", schedule.DefaultMinSlotMinutes, "Minimum size in minutes for a free slot to be reported. Can also use FIXETIME_MIN_SLOT_MINUTES env var.")
	cmd.Flags().IntVar(&lookaheadDays, "lookahead-days", schedule.DefaultLookaheadDays, "Days ahead the slot suggestion generator examines. Can also use FIXETIME_LOOKAHEAD_DAYS env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(transport string, httpAddr string, yolo bool, disableStreaming bool, rulesFile string, scheduleConfig schedule.Config, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load metrics config from environment if not set via flags
	if !metricsConfig.Enabled {
		if os.Getenv("METRICS_ENABLED") == "true" {
			metricsConfig.Enabled = true
		}
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == ":9090" {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	// Load scheduling window overrides from environment for values left at
	// their defaults
	applyScheduleEnvVars(&scheduleConfig)
	if err := scheduleConfig.Validate(); err != nil {
		return fmt.Errorf("invalid scheduling configuration: %w", err)
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Move any pre-account-support token into the default account slot
	if err := google.MigrateDefaultToken(); err != nil && transport != "stdio" {
		log.Printf("Warning: token migration failed: %v", err)
	}

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	serverContext.SetScheduleConfig(scheduleConfig)

	// Load triage rules (optional - tools fall back to classification only)
	if rulesFile == "" {
		rulesFile = os.Getenv("FIXETIME_RULES_FILE")
	}
	var ruleSet rules.RuleSet
	if rulesFile != "" {
		ruleSet, err = loadRuleSet(rulesFile)
		if err != nil {
			return fmt.Errorf("failed to load triage rules: %w", err)
		}
	} else {
		// Comma-separated env lists cover deployments without a rules file
		ruleSet = rules.RuleSet{
			AlwaysImportant: parseCommaSeparatedList(os.Getenv("FIXETIME_ALWAYS_IMPORTANT")),
			AlwaysIgnore:    parseCommaSeparatedList(os.Getenv("FIXETIME_ALWAYS_IGNORE")),
			UrgentKeywords:  parseCommaSeparatedList(os.Getenv("FIXETIME_URGENT_KEYWORDS")),
		}
	}
	serverContext.SetTriageRules(ruleSet)

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("fixetime", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	// Log the mode for visibility (only for non-stdio transports)
	if transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools and resources
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting fixetime MCP server with %s transport...\n", transport)
		return runStreamableHTTPServer(mcpSrv, serverContext, shutdownCtx, httpAddr, disableStreaming, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// runStreamableHTTPServer serves the MCP protocol over streamable HTTP next
// to the health probes, and shuts the server down when ctx is cancelled.
func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, ctx context.Context, addr string, disableStreaming bool, provider *instrumentation.Provider) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{
		Addr:             addr,
		DisableStreaming: disableStreaming,
		Metrics:          provider.Metrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	httpServer.Health().SetReady(true)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		return nil
	}
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Triage",
			register: func() error {
				return triage_tools.RegisterTriageTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Schedule",
			register: func() error {
				return schedule_tools.RegisterScheduleTools(mcpSrv, ctx)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Tasks",
			register: func() error {
				return tasks_tools.RegisterTasksTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Google Auth",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, ctx)
			},
		},
		{
			name: "User Resources",
			register: func() error {
				return resources.RegisterUserResources(mcpSrv, ctx)
			},
		},
		{
			name: "Config Resources",
			register: func() error {
				return resources.RegisterConfigResources(mcpSrv, ctx)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

// loadRuleSet reads a triage rule set from a JSON file.
func loadRuleSet(path string) (rules.RuleSet, error) {
	var rs rules.RuleSet
	data, err := os.ReadFile(path)
	if err != nil {
		return rs, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &rs); err != nil {
		return rs, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rs, nil
}

// applyScheduleEnvVars overrides scheduling values still at their defaults
// with FIXETIME_* environment variables.
func applyScheduleEnvVars(cfg *schedule.Config) {
	if cfg.WorkStartHour == schedule.DefaultWorkStartHour {
		if v, ok := intEnv("FIXETIME_WORK_START_HOUR"); ok {
			cfg.WorkStartHour = v
		}
	}
	if cfg.WorkEndHour == schedule.DefaultWorkEndHour {
		if v, ok := intEnv("FIXETIME_WORK_END_HOUR"); ok {
			cfg.WorkEndHour = v
		}
	}
	if cfg.MinSlotMinutes == schedule.DefaultMinSlotMinutes {
		if v, ok := intEnv("FIXETIME_MIN_SLOT_MINUTES"); ok {
			cfg.MinSlotMinutes = v
		}
	}
	if cfg.LookaheadDays == schedule.DefaultLookaheadDays {
		if v, ok := intEnv("FIXETIME_LOOKAHEAD_DAYS"); ok {
			cfg.LookaheadDays = v
		}
	}
}

func intEnv(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value %q (expected integer), ignoring", name, raw)
		return 0, false
	}
	return v, true
}

// parseCommaSeparatedList splits a comma-separated string into a slice,
// trimming whitespace and dropping empty entries. Returns nil for an
// empty input.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
