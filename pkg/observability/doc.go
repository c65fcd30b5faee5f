/*
Package observability provides Prometheus instrumentation for canopy evaluations.

Metrics are fed through domain.EvaluationHooks, so the evaluator itself stays
free of any metrics dependency.
*/
package observability
