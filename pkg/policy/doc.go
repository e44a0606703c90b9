/*
Package policy provides reference implementations of the decision ports.

They exist so a session can run end-to-end from a configuration file: fixed
query lists, fixed or random relevance judgments, qrels lookups, random
impressions and simple stopping rules. Research policies plug into the same
ports and never need this package.

Policies are constructed by name through a Registry. Each Registry is an
independent value; there is no process-wide registration.
*/
package policy
