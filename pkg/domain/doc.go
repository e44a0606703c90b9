/*
Package domain contains the core domain models of the search session simulator.

It defines the closed set of searcher actions, the records exchanged with the
retrieval back-end, the session report, and the lifecycle events emitted while
a session runs. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Action: A label from the closed set of searcher actions (QUERY, SERP, SNIPPET, ...).
  - Outcome: The pending "action value" produced by executing an action.
  - ResultPage: The ranked results returned for a query (a SERP).
  - Response: The conversational answer returned for an utterance (a CSRP).
  - Report: The postmortem summary of a finished or aborted session.
*/
package domain
