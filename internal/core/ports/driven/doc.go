// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and generation gateways, the
// persisted index store, document converters and the answer judge.
package driven
