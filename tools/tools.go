//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// golangci-lint - Lint aggregator
//   Install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@v1.64.8
//   Version: v1.64.8 (pinned 2026-02-01)
//   Docs: https://golangci-lint.run
