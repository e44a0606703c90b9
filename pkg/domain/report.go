package domain

import "time"

// Workflow names the engine that drove a session.
type Workflow string

const (
	WorkflowSearch         Workflow = "search"
	WorkflowConversational Workflow = "conversational"
	WorkflowMarkov         Workflow = "markov"
	WorkflowQueryMarkov    Workflow = "query-markov"
)

// Report summarises a session. Aborted sessions carry the error that stopped them.
type Report struct {
	SessionID string    `json:"session_id"`
	Workflow  Workflow  `json:"workflow"`
	Topic     string    `json:"topic,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Actions    []Action `json:"actions"`
	Queries    []string `json:"queries,omitempty"`
	Utterances []string `json:"utterances,omitempty"`

	SnippetsExamined    int `json:"snippets_examined"`
	DocumentsExamined   int `json:"documents_examined"`
	ResponsesExamined   int `json:"responses_examined"`
	RelevantDocuments   int `json:"relevant_documents"`
	IrrelevantDocuments int `json:"irrelevant_documents"`
	RelevantResponses   int `json:"relevant_responses"`

	AttractiveSERPs   int `json:"attractive_serps"`
	UnattractiveSERPs int `json:"unattractive_serps"`
	AttractiveCSRPs   int `json:"attractive_csrps"`
	UnattractiveCSRPs int `json:"unattractive_csrps"`

	TotalCost float64 `json:"total_cost"`
	CostLimit float64 `json:"cost_limit"`
	Reason    string  `json:"reason,omitempty"`

	Error string `json:"error,omitempty"`
}
