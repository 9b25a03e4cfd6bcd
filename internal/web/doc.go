// Package web is the presentation layer: thin HTTP handlers that translate
// catalog operations into pages, redirects and file responses. Templates are
// embedded in the binary. The core exposes no network surface of its own;
// everything user-facing lives here.
package web
