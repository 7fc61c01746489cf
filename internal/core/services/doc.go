// Package services implements the core pipeline: the index lifecycle
// (build-or-load against the persisted store), the diversified MMR
// retriever, the question/answer orchestrator, the multi-model
// comparison driver and the offline evaluator.
package services
