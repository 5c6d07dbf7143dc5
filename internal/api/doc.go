// Package api holds the HTTP handlers of the product, user and media
// services. Handlers extract path, header and body values, call the rule
// engines in internal/service and write the success or error envelope.
package api
