package prompts

import (
	_ "embed"
	"strings"
)

// Embedded prompt files

//go:embed chat_system.txt
var chatSystem string

// ChatSystem returns the base system prompt for the chat assistant.
func ChatSystem() string { return strings.TrimRight(chatSystem, "\n") }

// ChatSystemWithMemories appends the retrieved-memory block under its heading.
// An empty block returns the base prompt untouched, so the model never sees
// the heading without content.
func ChatSystemWithMemories(memoriesBlock string) string {
	base := ChatSystem()
	if strings.TrimSpace(memoriesBlock) == "" {
		return base
	}
	return base + "\n\nRelevant User Memories:\n" + memoriesBlock
}
