package ports

import "github.com/aretw0/searchsim/pkg/domain"

// Memory is the read-only view of a session handed to policies.
type Memory interface {
	Topic() string
	LastAction() domain.Action

	IssuedQueries() []string
	LastQuery() string
	QueryLimit() int

	IssuedUtterances() []string
	UtteranceLimit() int

	CurrentPage() *domain.ResultPage
	SERPPosition() int
	CurrentResponse() *domain.Response

	ExaminedSnippets() []string
	RelevantDocuments() []string
}
