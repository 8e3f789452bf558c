// Package prompts contains embedded prompt templates used by rosterdesk
package prompts

import _ "embed"

// AgentInstructions contains the embedded content of agent-instructions.md
//
//go:embed agent-instructions.md
var AgentInstructions string
