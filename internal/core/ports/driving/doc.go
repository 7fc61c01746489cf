// Package driving provides interfaces for callers of the core
// (primary/inbound ports): the CLI, the chat loop, the multi-model
// comparison driver and the offline evaluation harness.
package driving
