// Package mcp provides an MCP (Model Context Protocol) server adapter for
// SportsCom. It lets AI assistants ask the bot questions and inspect what
// the knowledge base retrieves.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
