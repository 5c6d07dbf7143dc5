// Package events defines the domain events BuyOne emits and the publishers
// that deliver them.
//
// Services depend on the Publisher interface only. In production a Queue wraps
// the JetStream publisher from platform/nats so a slow or unavailable bus never
// delays an HTTP response; tests use RecordingPublisher.
package events
