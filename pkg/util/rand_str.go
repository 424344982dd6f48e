// Package util contains any functions used across the application that don't match
// any other package
package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandStr returns a random string of n letters. Used for request IDs and
// database primary keys
func RandStr(n int) string {
	return gonanoid.MustGenerate(charset, n)
}

// URLSafeStr returns a random string of n characters drawn from the URL-safe
// alphabet (A-Za-z0-9_-), 6 bits of entropy per character
func URLSafeStr(n int) (string, error) {
	return gonanoid.New(n)
}
