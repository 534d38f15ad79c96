package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codescope/internal/files"
)

// AddReadFileTool registers the read_file tool.
func AddReadFileTool(s *server.MCPServer, executor *files.Executor) {
	tool := mcp.NewTool(
		"read_file",
		mcp.WithDescription("Read a file or a 1-based inclusive line range of it."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path to read")),
		mcp.WithNumber("start_line",
			mcp.Description("Optional starting line (1-based)")),
		mcp.WithNumber("end_line",
			mcp.Description("Optional ending line (1-based, inclusive)")),
	)
	s.AddTool(tool, createReadFileHandler(executor))
}

func createReadFileHandler(executor *files.Executor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		start := parseIntArg(argsMap, "start_line", 0)
		end := parseIntArg(argsMap, "end_line", 0)

		content, err := executor.ReadRange(path, start, end)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(content), nil
	}
}

// AddWriteFileTool registers the write_file tool. A successful write
// invalidates the file's analysis cache entry so later queries see it.
func AddWriteFileTool(s *server.MCPServer, executor *files.Executor) {
	tool := mcp.NewTool(
		"write_file",
		mcp.WithDescription("Write content to a file, creating it and any parent directories if needed."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path to write")),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full file content to write")),
	)
	s.AddTool(tool, createWriteFileHandler(executor))
}

func createWriteFileHandler(executor *files.Executor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		content, err := parseStringArg(argsMap, "content", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := executor.WriteFile(path, []byte(content)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("successfully wrote " + path), nil
	}
}

// AddEditFileTool registers the edit_file tool (edit by replacement).
func AddEditFileTool(s *server.MCPServer, executor *files.Executor) {
	tool := mcp.NewTool(
		"edit_file",
		mcp.WithDescription("Edit a file by replacing the first occurrence of old_content with new_content."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path to edit")),
		mcp.WithString("old_content",
			mcp.Required(),
			mcp.Description("Exact content to find and replace")),
		mcp.WithString("new_content",
			mcp.Required(),
			mcp.Description("Replacement content")),
	)
	s.AddTool(tool, createEditFileHandler(executor))
}

func createEditFileHandler(executor *files.Executor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		oldContent, err := parseStringArg(argsMap, "old_content", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		newContent, err := parseStringArg(argsMap, "new_content", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := executor.EditFile(path, oldContent, newContent); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("successfully edited " + path), nil
	}
}

// AddListFilesTool registers the list_files tool.
func AddListFilesTool(s *server.MCPServer, executor *files.Executor) {
	tool := mcp.NewTool(
		"list_files",
		mcp.WithDescription("List directory entries under a workspace path. Directories carry a trailing slash."),
		mcp.WithString("path",
			mcp.Description("Workspace-relative directory, default the workspace root")),
		mcp.WithBoolean("recursive",
			mcp.Description("List the whole subtree instead of one level")),
	)
	s.AddTool(tool, createListFilesHandler(executor))
}

func createListFilesHandler(executor *files.Executor) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		path, err := parseStringArg(argsMap, "path", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if path == "" {
			path = "."
		}
		recursive := parseBoolArg(argsMap, "recursive", false)

		entries, err := executor.ListTree(path, recursive)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return newToolResultJSON(entries)
	}
}

// AddSearchTextTool registers the search_text tool: lexical regex search,
// distinct from the symbol-aware find_references.
func AddSearchTextTool(s *server.MCPServer, searcher *files.Searcher) {
	tool := mcp.NewTool(
		"search_text",
		mcp.WithDescription("Search workspace files for a regular expression, returning matching lines."),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Regular expression to search for")),
		mcp.WithString("extension",
			mcp.Description("Optional file extension filter, e.g. '.py'")),
	)
	s.AddTool(tool, createSearchTextHandler(searcher))
}

func createSearchTextHandler(searcher *files.Searcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, errResult := parseToolArguments(request)
		if errResult != nil {
			return errResult, nil
		}
		pattern, err := parseStringArg(argsMap, "pattern", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		extension, err := parseStringArg(argsMap, "extension", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		matches, err := searcher.Search(pattern, extension)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return newToolResultJSON(matches)
	}
}
