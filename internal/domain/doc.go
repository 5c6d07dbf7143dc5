// Package domain contains the marketplace entities (products, categories,
// users and media) together with the permission table that decides who may
// mutate them. It has no knowledge of HTTP or storage.
package domain
