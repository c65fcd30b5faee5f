package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/config"
	"github.com/aretw0/canopy/internal/dto"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/presentation/graph"
	"github.com/aretw0/canopy/pkg/analysis"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/loader"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// modelFormatURI names the resource documenting the model document format.
const modelFormatURI = "canopy://docs/model-format"

// EvaluateArgs are the arguments of the evaluate_model tool.
type EvaluateArgs struct {
	Model  string  `json:"model"`
	Mode   string  `json:"mode,omitempty"`
	Policy string  `json:"policy,omitempty"`
	WTP    float64 `json:"wtp,omitempty"`
}

// Server exposes model evaluation as an MCP Server.
type Server struct {
	defaults  config.EvaluationConfig
	hooks     domain.EvaluationHooks
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used by tool handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHooks registers evaluation hooks on every engine the server builds.
func WithHooks(hooks domain.EvaluationHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// NewServer creates a new MCP Server instance. defaults apply whenever a
// tool call leaves mode, policy or wtp unset.
func NewServer(defaults config.EvaluationConfig, opts ...Option) *Server {
	s := &Server{
		defaults:  defaults,
		mcpServer: server.NewMCPServer("canopy-mcp", strings.TrimSpace(canopy.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// TOOL: evaluate_model
	evaluateTool := mcp.NewTool("evaluate_model",
		mcp.WithDescription("Evaluate every decision of a decision-tree model and rank its strategies by cost-effectiveness."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model document in YAML or JSON (see "+modelFormatURI+")")),
		mcp.WithString("mode", mcp.Description("strict (default) or optimal; optimal resolves decisions nested below chance nodes")),
		mcp.WithString("policy", mcp.Description("Decision policy: max-utility, min-cost or net-benefit")),
		mcp.WithNumber("wtp", mcp.Description("Willingness to pay per unit of utility; defaults to the model's own")),
		mcp.WithOutputSchema[dto.AnalysisResponse](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: calculate_icer
	icerTool := mcp.NewTool("calculate_icer",
		mcp.WithDescription("Incremental cost-effectiveness ratio of strategy B over strategy A. Null with infinite=true when B gains no utility."),
		mcp.WithNumber("cost_a", mcp.Required(), mcp.Description("Expected cost of A")),
		mcp.WithNumber("utility_a", mcp.Required(), mcp.Description("Expected utility of A")),
		mcp.WithNumber("cost_b", mcp.Required(), mcp.Description("Expected cost of B")),
		mcp.WithNumber("utility_b", mcp.Required(), mcp.Description("Expected utility of B")),
		mcp.WithOutputSchema[dto.ICERResponse](),
	)
	s.mcpServer.AddTool(icerTool, mcp.NewStructuredToolHandler(s.handleICER))

	// TOOL: render_graph
	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render each decision of a model as a Mermaid flowchart."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model document in YAML or JSON")),
		mcp.WithBoolean("overlay", mcp.Description("Highlight the branches chosen by the default policy")),
	), s.handleRenderGraph)
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args EvaluateArgs) (dto.AnalysisResponse, error) {
	model, err := loader.Parse([]byte(args.Model))
	if err != nil {
		s.logger.Warn("MCP Evaluate: Invalid model", "error", err)
		return dto.AnalysisResponse{}, err
	}

	cfg := s.defaults
	if args.Mode != "" {
		cfg.Mode = args.Mode
	}
	if args.Policy != "" {
		cfg.Policy = args.Policy
	}
	if args.WTP != 0 {
		cfg.WillingnessToPay = args.WTP
	}
	eng, err := s.engine(cfg, model)
	if err != nil {
		return dto.AnalysisResponse{}, err
	}

	a, err := eng.Analyze(model)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("evaluate failed: %w", err)
	}
	return dto.FromAnalysis(a), nil
}

func (s *Server) handleICER(ctx context.Context, request mcp.CallToolRequest, args dto.ICERRequest) (dto.ICERResponse, error) {
	return dto.NewICERResponse(analysis.CalculateICER(args.CostA, args.UtilityA, args.CostB, args.UtilityB)), nil
}

func (s *Server) handleRenderGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := request.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	overlay := request.GetBool("overlay", false)

	model, err := loader.Parse([]byte(doc))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid model: %v", err)), nil
	}
	eng, err := s.engine(s.defaults, model)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sel graph.Selector
	if overlay {
		sel = eng
	}

	diagrams := make([]string, 0, len(model.Decisions))
	for _, d := range model.Decisions {
		diagram, err := graph.Diagram(d, sel)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("render %q failed: %v", d.Name, err)), nil
		}
		diagrams = append(diagrams, diagram)
	}
	return mcp.NewToolResultText(strings.Join(diagrams, "\n")), nil
}

func (s *Server) engine(cfg config.EvaluationConfig, model *loader.Model) (*canopy.Engine, error) {
	opts, err := cfg.EngineOptions(model.WillingnessToPay)
	if err != nil {
		return nil, err
	}
	opts = append(opts, canopy.WithLogger(s.logger), canopy.WithHooks(s.hooks))
	return canopy.New(opts...), nil
}

func (s *Server) registerResources() {
	// EXPOSE: canopy://docs/model-format
	s.mcpServer.AddResource(mcp.NewResource(modelFormatURI, "Model document format",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      modelFormatURI,
				MIMEType: "text/markdown",
				Text:     modelFormat,
			},
		}, nil
	})
}

const modelFormat = "# Model document\n\n" +
	"A model lists one or more decisions. A node with `branches` is a decision; " +
	"every other node is a chance node with `probability`, `cost`, `utility` and `next`.\n\n" +
	"```yaml\n" +
	"name: Screening programme\n" +
	"willingness_to_pay: 30000\n" +
	"decisions:\n" +
	"  - name: Screen?\n" +
	"    branches:\n" +
	"      - name: No screening\n" +
	"        next:\n" +
	"          - name: Disease\n" +
	"            probability: 0.1\n" +
	"            cost: 5000\n" +
	"            utility: 10\n" +
	"          - name: Healthy\n" +
	"            probability: 0.9\n" +
	"            utility: 20\n" +
	"```\n\n" +
	"Probabilities lie in [0,1]. Decision branches default to probability 1; " +
	"nodes under `next` must state theirs. Sibling probabilities are not required to sum to 1.\n"
