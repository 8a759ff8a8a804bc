package model

// AppState stores per-invocation state for the chat graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
type AppState struct {
	SessionID string
	Command   Command // set by the classifier post-handler

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput represents one inbound chat message for the graph.
type QueryInput struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}
