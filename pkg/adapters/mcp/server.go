// Package mcp exposes the session manager as a Model Context Protocol
// server, so agent hosts can drive interviews as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/uxforge/maestro"
	"github.com/uxforge/maestro/pkg/bank"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/session"
)

// TurnResponse is the unified structure returned by interview tools.
type TurnResponse struct {
	SessionID string           `json:"session_id" jsonschema_description:"The session identifier"`
	Question  *domain.Question `json:"question,omitempty" jsonschema_description:"The next question to answer, if any"`
	Decision  *domain.Decision `json:"decision,omitempty" jsonschema_description:"The computed decision, once available"`
	Progress  float64          `json:"progress" jsonschema_description:"Interview progress between 0 and 1"`
	Status    domain.Status    `json:"status" jsonschema_description:"The session state machine status"`
}

// ExecuteResponse is returned by the execute tool.
type ExecuteResponse struct {
	SessionID string               `json:"session_id"`
	Output    *domain.DesignOutput `json:"output" jsonschema_description:"The generated design artifact"`
	Mode      domain.Mode          `json:"mode"`
	Status    domain.Status        `json:"status"`
}

// Server wraps the session manager and exposes it as an MCP server.
type Server struct {
	manager   *session.Manager
	bank      *bank.Bank
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(manager *session.Manager, b *bank.Bank) *Server {
	s := &Server{
		manager:   manager,
		bank:      b,
		mcpServer: server.NewMCPServer("maestro-mcp", strings.TrimSpace(maestro.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start a new design interview session. Returns the first question."),
		mcp.WithString("project_context", mcp.Description("Free-form description of the project (optional)")),
		mcp.WithString("existing_output", mcp.Description("A previously generated design to iterate on (optional)")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	answerTool := mcp.NewTool("answer",
		mcp.WithDescription("Answer the current question. Returns the next question or, when the interview completes, the decision."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("question_id", mcp.Required(), mcp.Description("The ID of the question being answered")),
		mcp.WithString("selected_options", mcp.Description("JSON array of selected option IDs (choice questions)")),
		mcp.WithString("free_text", mcp.Description("Free text answer (free_text and color_picker questions)")),
		mcp.WithNumber("slider_value", mcp.Description("Slider value between 0 and 1 (slider questions)")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleAnswer))

	forceTool := mcp.NewTool("force_decision",
		mcp.WithDescription("Skip the remaining questions and decide from the answers given so far."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(forceTool, mcp.NewStructuredToolHandler(s.handleForceDecision))

	executeTool := mcp.NewTool("execute",
		mcp.WithDescription("Execute the confirmed decision against the generation backend."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithBoolean("use_trifecta", mcp.Description("Generate three stylistic variants")),
		mcp.WithString("quality_target", mcp.Description("One of draft, production, premium, enterprise (default production)")),
		mcp.WithOutputSchema[ExecuteResponse](),
	)
	s.mcpServer.AddTool(executeTool, mcp.NewStructuredToolHandler(s.handleExecute))

	abortTool := mcp.NewTool("abort",
		mcp.WithDescription("Abort the session and discard its state."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	)
	s.mcpServer.AddTool(abortTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.manager.Abort(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("abort failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("session %s aborted", sessionID)), nil
	})

	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Inspect the full state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	)
	s.mcpServer.AddTool(getTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sess, err := s.manager.Get(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("get failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(sess)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	projectContext, _ := args["project_context"].(string)
	existingOutput, _ := args["existing_output"].(string)

	result, err := s.manager.StartSession(ctx, projectContext, existingOutput)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return toTurnResponse(result), nil
}

func (s *Server) handleAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	sessionID, _ := args["session_id"].(string)
	questionID, _ := args["question_id"].(string)

	answer := domain.Answer{QuestionID: questionID}
	if optsStr, ok := args["selected_options"].(string); ok && optsStr != "" {
		if err := json.Unmarshal([]byte(optsStr), &answer.SelectedOptions); err != nil {
			return TurnResponse{}, fmt.Errorf("selected_options must be a JSON array of strings: %w", err)
		}
	}
	if text, ok := args["free_text"].(string); ok {
		answer.FreeText = text
	}
	if v, ok := args["slider_value"].(float64); ok {
		answer.SliderValue = &v
	}

	result, err := s.manager.Answer(ctx, sessionID, answer)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("answer failed: %w", err)
	}
	return toTurnResponse(result), nil
}

func (s *Server) handleForceDecision(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	sessionID, _ := args["session_id"].(string)

	result, err := s.manager.ForceDecision(ctx, sessionID)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("force_decision failed: %w", err)
	}
	return toTurnResponse(result), nil
}

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExecuteResponse, error) {
	sessionID, _ := args["session_id"].(string)
	useTrifecta, _ := args["use_trifecta"].(bool)
	quality, _ := args["quality_target"].(string)

	result, err := s.manager.Execute(ctx, sessionID, useTrifecta, domain.QualityTarget(quality))
	if err != nil {
		return ExecuteResponse{}, fmt.Errorf("execute failed: %w", err)
	}
	return ExecuteResponse{
		SessionID: result.SessionID,
		Output:    result.Output,
		Mode:      result.Mode,
		Status:    result.Status,
	}, nil
}

func toTurnResponse(result *session.TurnResult) TurnResponse {
	return TurnResponse{
		SessionID: result.SessionID,
		Question:  result.Question,
		Decision:  result.Decision,
		Progress:  result.Progress,
		Status:    result.Status,
	}
}

func (s *Server) registerResources() {
	// EXPOSE: maestro://questions
	s.mcpServer.AddResource(mcp.NewResource("maestro://questions", "Question Bank",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.bank.All())
		if err != nil {
			return nil, fmt.Errorf("failed to encode question bank: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "maestro://questions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
