// Package gateway is the single entry point in front of the product, user
// and media services. It authenticates bearer tokens, rate limits clients
// and reverse-proxies each route prefix to its upstream.
package gateway
