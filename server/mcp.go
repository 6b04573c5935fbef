package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/poiesic/memberqa/core"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question about member messages"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// SampleInput is the input schema for the sample tool.
type SampleInput struct {
	N          int  `json:"n,omitempty" jsonschema:"number of documents to return (default 5)"`
	IncludeRaw bool `json:"include_raw,omitempty" jsonschema:"include the source record of each document"`
}

// SampleOutput is the output schema for the sample tool.
type SampleOutput struct {
	TotalDocs int                 `json:"total_docs"`
	Sample    []SampleEntryOutput `json:"sample"`
}

// SampleEntryOutput is one document of a sample. Raw holds the decoded
// source record.
type SampleEntryOutput struct {
	Member    string `json:"member"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Raw       any    `json:"raw,omitempty"`
}

// MCPServer offers the engine as MCP tools.
type MCPServer struct {
	engine Engine
	server *mcp.Server
}

// NewMCPServer creates an MCP server for engine.
func NewMCPServer(engine Engine) (*MCPServer, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}

	impl := &mcp.Implementation{
		Name:    "memberqa",
		Version: Version,
	}

	s := &MCPServer{
		engine: engine,
		server: mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *MCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about member messages",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sample",
		Description: "Show the first documents of the current corpus",
	}, s.handleSample)
}

func (s *MCPServer) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}
	return nil, AskOutput{Answer: s.engine.Answer(ctx, input.Question)}, nil
}

func (s *MCPServer) handleSample(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SampleInput,
) (*mcp.CallToolResult, SampleOutput, error) {
	return nil, sampleOutput(s.engine.DebugSample(input.N, input.IncludeRaw)), nil
}

func sampleOutput(sample core.Sample) SampleOutput {
	out := SampleOutput{
		TotalDocs: sample.TotalDocs,
		Sample:    make([]SampleEntryOutput, len(sample.Sample)),
	}
	for i, entry := range sample.Sample {
		out.Sample[i] = SampleEntryOutput{
			Member:    entry.Member,
			Text:      entry.Text,
			Timestamp: entry.Timestamp,
		}
		if len(entry.Raw) > 0 {
			var raw any
			if err := json.Unmarshal(entry.Raw, &raw); err == nil {
				out.Sample[i].Raw = raw
			}
		}
	}
	return out
}
