// Package natsjs connects BuyOne to NATS JetStream. It provides the
// product-deleted event publisher and the object store that holds media
// binaries.
package natsjs
