package actions

import (
	"io"
	"sort"
	"strings"
	"sync"
)

// Mask replaces registered secret values.
const Mask = "***"

// Secrets is a registry of values that must never be printed.
// It is safe for concurrent use.
type Secrets struct {
	mu     sync.RWMutex
	values []string
}

// Add registers a secret. Empty values are ignored.
func (s *Secrets) Add(value string) {
	if value == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.values {
		if v == value {
			return
		}
	}
	s.values = append(s.values, value)
	// longest first so a secret containing another is masked whole
	sort.SliceStable(s.values, func(i, j int) bool {
		return len(s.values[i]) > len(s.values[j])
	})
}

// Redact returns text with every registered secret replaced by Mask.
func (s *Secrets) Redact(text string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.values {
		text = strings.ReplaceAll(text, v, Mask)
	}
	return text
}

// Writer wraps w so everything written through it is redacted.
func (s *Secrets) Writer(w io.Writer) io.Writer {
	return &redactingWriter{secrets: s, out: w}
}

type redactingWriter struct {
	secrets *Secrets
	out     io.Writer
}

// Write redacts p and reports the full input length as written, since
// callers account in terms of their own bytes.
func (w *redactingWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(w.out, w.secrets.Redact(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
