package model

import "strings"

// CommandKind enumerates the chat commands the router understands. The
// classifier produces exactly one of these per message, so dispatch is a
// switch over a closed set instead of string-prefix fallthrough.
type CommandKind int

const (
	// CommandExtract is the default outcome: run concept extraction and
	// auto-ingest the result.
	CommandExtract CommandKind = iota
	// CommandQuery runs a direct pattern query against the fact base.
	CommandQuery
	// CommandDump lists every concept currently in the fact base.
	CommandDump
	// CommandAnalyze runs the overview graph analysis.
	CommandAnalyze
)

const (
	queryPrefix    = "metta:"
	dumpKeyword    = "show unexplored"
	analyzeKeyword = "analyze graph"
)

// Command is a classified chat message. Query carries the pattern text for
// CommandQuery; Text always carries the original message.
type Command struct {
	Kind  CommandKind
	Text  string
	Query string
}

// ClassifyCommand maps raw chat text onto a Command. Matching is
// case-insensitive on the trimmed text; anything unrecognized becomes
// CommandExtract.
func ClassifyCommand(text string) Command {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, queryPrefix):
		return Command{
			Kind:  CommandQuery,
			Text:  trimmed,
			Query: strings.TrimSpace(trimmed[len(queryPrefix):]),
		}
	case lower == dumpKeyword:
		return Command{Kind: CommandDump, Text: trimmed}
	case lower == analyzeKeyword:
		return Command{Kind: CommandAnalyze, Text: trimmed}
	default:
		return Command{Kind: CommandExtract, Text: trimmed}
	}
}
