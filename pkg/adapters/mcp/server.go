// Package mcp exposes the engine as a Model Context Protocol server so
// agents can build and inspect queries over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

// BuildResponse is the structured output of the build_query tool.
type BuildResponse struct {
	BuildID string          `json:"build_id" jsonschema_description:"Unique identifier of this build"`
	Query   domain.Document `json:"query" jsonschema_description:"The assembled query document"`
}

// EngineFactory creates a fresh engine per tool call. Engines hold one
// build's state and cannot be shared across concurrent calls.
type EngineFactory func() *espalier.Engine

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	newEngine EngineFactory
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(newEngine EngineFactory) *Server {
	s := &Server{
		newEngine: newEngine,
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: build_query
	buildTool := mcp.NewTool("build_query",
		mcp.WithDescription("Build a query document from a phrase program. Phrases are dispatched in order; unknown phrases are skipped."),
		mcp.WithString("phrases", mcp.Required(), mcp.Description(`JSON array of phrases, e.g. [{"name":"match","params":{"field":"title","query":"x"}}]`)),
		mcp.WithOutputSchema[BuildResponse](),
	)
	s.mcpServer.AddTool(buildTool, mcp.NewStructuredToolHandler(s.handleBuildQuery))

	// TOOL: describe_phrases
	s.mcpServer.AddTool(mcp.NewTool("describe_phrases",
		mcp.WithDescription("Return a human-readable description of what each phrase in a program would do, without building."),
		mcp.WithString("phrases", mcp.Required(), mcp.Description("JSON array of phrases")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		phrasesStr, err := request.RequireString("phrases")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		phrases, err := parsePhrases(phrasesStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lines, err := s.newEngine().Describe(phrases)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
		}
		return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
	})
}

func (s *Server) handleBuildQuery(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (BuildResponse, error) {
	phrasesStr, _ := args["phrases"].(string)
	phrases, err := parsePhrases(phrasesStr)
	if err != nil {
		return BuildResponse{}, err
	}

	eng := s.newEngine()
	doc, err := eng.BuildQuery(ctx, phrases)
	if err != nil {
		return BuildResponse{}, fmt.Errorf("build failed: %w", err)
	}

	return BuildResponse{
		BuildID: eng.BuildID(),
		Query:   doc,
	}, nil
}

func parsePhrases(raw string) ([]domain.Phrase, error) {
	var phrases []domain.Phrase
	if err := json.Unmarshal([]byte(raw), &phrases); err != nil {
		return nil, fmt.Errorf("invalid phrases payload: %w", err)
	}
	if len(phrases) == 0 {
		return nil, fmt.Errorf("no phrases given")
	}
	return phrases, nil
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://phrases
	s.mcpServer.AddResource(mcp.NewResource("espalier://phrases", "Registered Phrase Names",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names := s.newEngine().Registry().PhraseNames()
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://phrases",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
