//go:build windows

package logger

// isTerminal always reports false on Windows; the color text handler
// degrades to plain output rather than emitting ANSI codes that the
// default console host may not interpret.
func isTerminal(fd uintptr) bool {
	return false
}
