package ports

import (
	"context"

	"github.com/aretw0/searchsim/pkg/domain"
)

// SearchEngine executes queries against a retrieval back-end.
type SearchEngine interface {
	// IssueQuery returns at most top ranked results for the query.
	IssueQuery(ctx context.Context, query string, top int) (*domain.ResultPage, error)

	// Document returns the full document behind a result.
	Document(ctx context.Context, id string) (*domain.Document, error)
}

// ConversationalEngine answers utterances in a conversational session.
type ConversationalEngine interface {
	IssueUtterance(ctx context.Context, utterance string) (*domain.Response, error)
}
