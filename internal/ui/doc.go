// Package ui provides semantic text formatting for CLI output.
//
// This package defines formatters for different types of content (code,
// paths, errors, secrets) that render appropriately based on terminal
// capabilities. When colors are available, content is colorized. When
// NO_COLOR is set or the terminal doesn't support colors, text-based
// decorations (backticks, quotes) are used instead.
//
// # Semantic Formatters
//
// Use the appropriate formatter for the content type:
//
//	ui.Code.Sprint("fractured decrypt a.png b.png")  // Commands
//	ui.Path.Sprint("photo_share1.png")               // File paths
//	ui.Success.Sprint("✓")                            // Success indicators
//	ui.Error.Sprint("✗")                              // Error indicators
//	ui.Info.Sprint("→")                               // Informational hints
//	ui.Highlight.Sprint("2 of 3")                     // Emphasized values
//	ui.Secret.Sprint(password)                        // Recovered secrets
//	ui.Muted.Sprint("skipped")                        // De-emphasized text
//
// # Color Behavior
//
// Colors are disabled when:
//   - NO_COLOR environment variable is set (any value)
//   - Terminal doesn't support colors (TERM=dumb, not a TTY)
//
// When colors are disabled, formatters apply text decorations:
//   - Code: `backticks`
//   - Highlight: 'single quotes'
//   - Muted: (parentheses)
//   - Secret and the rest: no decoration, so output stays copy-pasteable
package ui
