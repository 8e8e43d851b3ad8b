package docs

import (
	_ "embed"
)

// ServerInstructions is sent to MCP clients on initialize and describes how the
// fraud-ring tools fit together.
//
//go:embed prompts/server_instructions.md
var ServerInstructions string
