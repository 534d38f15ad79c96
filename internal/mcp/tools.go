package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codescope/internal/analyzer"
)

// AddAnalyzeStructureTool registers the analyze_structure tool. This
// function is composable with the other tool registrations.
func AddAnalyzeStructureTool(s *server.MCPServer, engine *analyzer.Engine) {
	tool := mcp.NewTool(
		"analyze_structure",
		mcp.WithDescription("Analyze a source file's structure: classes, functions, methods, and module variables with line spans, docstrings, parameters, and return types."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the file to analyze")),
	)
	s.AddTool(tool, createAnalyzeStructureHandler(engine))
}

func createAnalyzeStructureHandler(engine *analyzer.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := engine.AnalyzeStructure(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return newToolResultJSON(result)
	}
}

// AddFindSymbolTool registers the find_symbol tool: the "locate definition"
// capability. When a name is defined more than once, the most recent
// definition in source order wins; all definitions are included for context.
func AddFindSymbolTool(s *server.MCPServer, engine *analyzer.Engine) {
	tool := mcp.NewTool(
		"find_symbol",
		mcp.WithDescription("Locate the definition of a symbol (class, function, method, or variable) by exact name across the analyzed project."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Exact symbol name to find")),
		mcp.WithString("path",
			mcp.Description("Optional workspace-relative file path to restrict the search to")),
	)
	s.AddTool(tool, createFindSymbolHandler(engine))
}

type findSymbolResponse struct {
	Symbol      interface{} `json:"symbol"`
	Definitions interface{} `json:"definitions,omitempty"`
	Count       int         `json:"count"`
	FailedPaths []string    `json:"failed_paths,omitempty"`
}

func createFindSymbolHandler(engine *analyzer.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		name, err := parseStringArg(argsMap, "name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path, err := parseStringArg(argsMap, "path", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var opts []analyzer.QueryOption
		if path != "" {
			opts = append(opts, analyzer.WithPath(path))
		}

		result, err := engine.FindSymbols(ctx, name, opts...)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(result.Symbols) == 0 {
			return mcp.NewToolResultError("no symbol found with name: " + name), nil
		}

		resp := findSymbolResponse{
			Symbol:      result.Symbols[len(result.Symbols)-1],
			Definitions: result.Symbols,
			Count:       len(result.Symbols),
		}
		for _, f := range result.Failed {
			resp.FailedPaths = append(resp.FailedPaths, f.Path)
		}
		return newToolResultJSON(resp)
	}
}

// AddFindReferencesTool registers the find_references tool: the "find
// usages" capability. An empty result is success, not an error.
func AddFindReferencesTool(s *server.MCPServer, engine *analyzer.Engine) {
	tool := mcp.NewTool(
		"find_references",
		mcp.WithDescription("Find every occurrence of a symbol name across the project, classifying each as a definition or a usage."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Exact symbol name to find references for")),
		mcp.WithString("path",
			mcp.Description("Optional workspace-relative file path to restrict the search to")),
	)
	s.AddTool(tool, createFindReferencesHandler(engine))
}

type findReferencesResponse struct {
	References  []analyzer.Reference `json:"references"`
	Count       int                  `json:"count"`
	FailedPaths []string             `json:"failed_paths,omitempty"`
}

func createFindReferencesHandler(engine *analyzer.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}

		name, err := parseStringArg(argsMap, "name", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path, err := parseStringArg(argsMap, "path", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var opts []analyzer.QueryOption
		if path != "" {
			opts = append(opts, analyzer.WithPath(path))
		}

		result, err := engine.FindReferences(ctx, name, opts...)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		resp := findReferencesResponse{
			References: result.References,
			Count:      len(result.References),
		}
		for _, f := range result.Failed {
			resp.FailedPaths = append(resp.FailedPaths, f.Path)
		}
		return newToolResultJSON(resp)
	}
}
