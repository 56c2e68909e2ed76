// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes dashboard reports and the task board via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/digimark/internal/aggregate"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/schema"
	"github.com/starford/digimark/internal/service"
)

// SchemaURI addresses the channel registry resource.
const SchemaURI = "digimark://schema"

// Server wraps the MCP server with dashboard tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *service.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Digimark",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("dashboard_summary",
		mcp.WithDescription("Totals (spend, revenue, leads, reach, ROAS), channel distribution "+
			"and daily revenue/spend series for the filtered marketing records."),
		mcp.WithString("category", mcp.Description(`Category filter: "Organik", "Paid Ads" or "all"`)),
		mcp.WithString("channel", mcp.Description(`Channel filter, e.g. "Meta Ads", or "all"`)),
	), s.dashboardSummary)

	s.mcp.AddTool(mcp.NewTool("export_records",
		mcp.WithDescription("CSV report of the filtered marketing records."),
		mcp.WithString("category", mcp.Description(`Category filter: "Organik", "Paid Ads" or "all"`)),
		mcp.WithString("channel", mcp.Description(`Channel filter, e.g. "Meta Ads", or "all"`)),
	), s.exportRecords)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("Marketing records, newest first, optionally matching a channel or category substring."),
		mcp.WithString("search", mcp.Description("Case-insensitive channel or category substring")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("Tasks on the team board, optionally limited to one status."),
		mcp.WithString("status", mcp.Description(`"todo", "in-progress" or "done"`)),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("move_task",
		mcp.WithDescription("Move a task to another board column."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
		mcp.WithString("status", mcp.Required(), mcp.Description(`"todo", "in-progress" or "done"`)),
	), s.moveTask)

	s.mcp.AddTool(mcp.NewTool("channel_schema",
		mcp.WithDescription("Metric fields accepted by a channel, or the whole channel registry."),
		mcp.WithString("channel", mcp.Description("Channel name (empty for all)")),
	), s.channelSchema)

	s.mcp.AddResource(
		mcp.NewResource(SchemaURI, "Channel Registry",
			mcp.WithResourceDescription("Categories, their channels and each channel's metric fields."),
			mcp.WithMIMEType("application/json"),
		),
		s.readSchemaResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func filterArgs(req mcp.CallToolRequest) (aggregate.Filter, error) {
	return aggregate.ParseFilter(req.GetString("category", ""), req.GetString("channel", ""))
}

func (s *Server) dashboardSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Dashboard(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d)
}

func (s *Server) exportRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f, err := filterArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := s.svc.Export(ctx, &buf, f); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.svc.ListRecords(ctx, req.GetString("search", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("no records found"), nil
	}
	return jsonResult(records)
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := models.TaskStatus(req.GetString("status", ""))
	if status == "" {
		tasks, err := s.svc.ListTasks(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(tasks)
	}
	if !status.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown status: %s", status)), nil
	}
	cols, err := s.svc.TasksByStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cols[status])
}

func (s *Server) moveTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := req.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.svc.MoveTask(ctx, id, models.TaskStatus(status))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

// registry is the JSON shape of the channel registry.
type registry struct {
	Categories map[models.Category][]models.Channel    `json:"categories"`
	Fields     map[models.Channel][]models.MetricField `json:"fields"`
}

func buildRegistry() registry {
	reg := registry{
		Categories: make(map[models.Category][]models.Channel),
		Fields:     make(map[models.Channel][]models.MetricField),
	}
	for _, cat := range schema.Categories() {
		reg.Categories[cat] = schema.ChannelsFor(cat)
	}
	for _, ch := range schema.Channels() {
		reg.Fields[ch] = schema.MetricFieldsFor(ch)
	}
	return reg
}

func (s *Server) channelSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ch := models.Channel(req.GetString("channel", ""))
	if ch == "" {
		return jsonResult(buildRegistry())
	}
	if !ch.IsValid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown channel: %s", ch)), nil
	}
	cat, _ := schema.CategoryOf(ch)
	return jsonResult(map[string]any{
		"channel":  ch,
		"category": cat,
		"fields":   schema.MetricFieldsFor(ch),
	})
}

func (s *Server) readSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(buildRegistry(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SchemaURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
