// Package prompts contains MCP prompt implementations for HAR captures.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	ExpandPrivate bool
	ShortURL      bool
}
