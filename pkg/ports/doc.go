/*
Package ports defines the driven ports (interfaces) of the search session simulator.

These interfaces decouple the session-driving core from its collaborators: the
retrieval back-end, the decision policies (generators, classifiers, impression
judges, stopping deciders), the cost logger, and the report persistence layer.
The core only depends on these narrow contracts and never reaches into a
policy's internal state.

# Key Interfaces

  - SearchEngine / ConversationalEngine: execute queries and utterances.
  - QueryGenerator, SnippetClassifier, DocumentClassifier, SERPImpression, StoppingDecider: search policies.
  - UtteranceGenerator, CSRPImpression, ResponseClassifier, ResponseDecider: conversational policies.
  - ActionLogger: charges actions to the session and exposes the finished predicate.
  - ActionSelector: the single capability implemented by every driving engine.
  - ReportStore: persists session reports.
  - DistributedLocker: coordinates batch workers claiming sessions.
*/
package ports
