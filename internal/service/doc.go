// Package service holds the marketplace rule engines: products, categories,
// users and media. Each engine validates input, asks domain.Decide whether the
// caller may act, and persists through the interfaces in internal/store.
//
// Failures the caller can act on are returned as *Error values wrapping one of
// the kind sentinels (ErrBadRequest, ErrForbidden, ErrNotFound, ...), so the
// api package maps them to status codes with errors.Is. Anything else is an
// internal failure wrapped in a ServiceError.
//
// Services receive their stores, publishers and configuration at construction
// and never depend on a concrete database or bus.
package service
