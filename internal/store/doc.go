// Package store defines the persistence interfaces for products, categories,
// users and media, plus the error values every implementation returns.
// Services depend on these interfaces; platform/postgres implements them.
package store
