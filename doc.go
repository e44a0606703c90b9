/*
Package searchsim simulates a human searcher interacting with a retrieval
system, so ranking functions and interface designs can be evaluated offline.

A session is a sequence of discrete actions (QUERY, SERP, SNIPPET, DOC, MARK,
UTTERANCE, CSRP, RESPONSE, MARKRESPONSE, STOP). The order is decided either by
a scripted workflow conditioned on policy outcomes, or by a Markov transition
model sampled at every step. Each action is charged against a cost budget and
the session ends when the budget is spent, the searcher stops, or the query
generator runs dry.

The retrieval back-end and every decision (which query to issue, whether a
snippet looks relevant, when to give up on a page) are supplied through the
narrow interfaces in pkg/ports. Reference implementations live in pkg/policy
and pkg/adapters.

# Usage

	sim, err := searchsim.New(
		searchsim.WithSearchEngine(engine),
		searchsim.WithPolicies(searchsim.Policies{
			Queries:   &policy.ListQueries{Queries: []string{"wildlife extinction"}},
			Snippets:  &policy.Fixed[domain.Result]{Relevant: true},
			Documents: &policy.Fixed[domain.Document]{Relevant: true},
			SERP:      &policy.FixedImpression[*domain.ResultPage]{Attractive: true},
			Stopping:  &policy.FixedDepth{Depth: 10},
		}),
		searchsim.WithCostLimit(120),
	)
	if err != nil {
		log.Fatal(err)
	}

	report, err := sim.Run(ctx)

Run returns the report even when a policy fails; the error explains why the
session was cut short.
*/
package searchsim
