// Package testkit holds the seam and assertion helpers shared by package tests
package testkit

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

var serial sync.Mutex

// Swap points target at replacement until the test ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a process wide lock for the rest of the test
// tests that Swap package seams take it so they never overlap
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}

// MustPanic fails unless fn panics and returns the recovered value
func MustPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
	return nil
}

// MustContain fails unless haystack contains needle, printing haystack in full
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("missing %q in:\n%s", needle, haystack)
	}
}

// PanicText renders a recovered value for message checks
func PanicText(v any) string { return fmt.Sprint(v) }
