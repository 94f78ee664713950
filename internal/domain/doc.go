// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (video.go, keywords.go, messages.go, errors.go)
// hold shared types and cross-cutting interfaces. No implementation code,
// just contracts. Keeping interfaces on the consumer side prevents circular
// imports between the poller, the hub, and the gateway.
package domain
