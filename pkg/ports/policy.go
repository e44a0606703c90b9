package ports

import (
	"context"

	"github.com/aretw0/searchsim/pkg/domain"
)

// ModelUpdater is implemented by every policy that learns from the session.
// Learning state is owned by the policy and only reachable through this call.
type ModelUpdater interface {
	UpdateModel(ctx context.Context, m Memory) error
}

// QueryGenerator produces the next query text.
// ok is false once the generator has nothing left to issue.
type QueryGenerator interface {
	ModelUpdater
	NextQuery(ctx context.Context, m Memory) (query string, ok bool, err error)
}

// UtteranceGenerator produces the next utterance of a conversational session.
type UtteranceGenerator interface {
	ModelUpdater
	NextUtterance(ctx context.Context, m Memory) (utterance string, ok bool, err error)
}

// SnippetClassifier judges a result surrogate.
type SnippetClassifier interface {
	ModelUpdater
	IsRelevant(ctx context.Context, snippet domain.Result) (bool, error)
}

// DocumentClassifier judges a full document.
type DocumentClassifier interface {
	ModelUpdater
	IsRelevant(ctx context.Context, doc domain.Document) (bool, error)
}

// ResponseClassifier judges a conversational response.
type ResponseClassifier interface {
	ModelUpdater
	IsRelevant(ctx context.Context, resp domain.Response) (bool, error)
}

// SERPImpression decides whether a result page is worth examining.
type SERPImpression interface {
	IsAttractive(ctx context.Context, page *domain.ResultPage) (bool, error)
}

// CSRPImpression decides whether a conversational result is worth examining.
type CSRPImpression interface {
	IsAttractive(ctx context.Context, resp *domain.Response) (bool, error)
}

// StoppingDecider picks the next action after a non-terminal examination.
// Search deciders return QUERY or SNIPPET.
type StoppingDecider interface {
	Decide(ctx context.Context, m Memory) (domain.Action, error)
}

// ResponseDecider is the conversational stopping decider: UTTERANCE or STOP.
type ResponseDecider interface {
	Decide(ctx context.Context, m Memory) (domain.Action, error)
}
