// Package driving lists what the CLI, web, MCP and TUI surfaces may ask of
// the core: chat replies, retrieval, knowledge reloads and settings.
// internal/core/services implements every interface here.
package driving
