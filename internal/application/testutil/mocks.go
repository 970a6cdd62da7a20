// Package testutil provides fakes shared by the application layer tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

// MockLogger records log calls.
type MockLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	Fields  []interface{}
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(msg string, args ...any)        { m.log("DEBUG", msg, args...) }
func (m *MockLogger) Info(msg string, args ...any)         { m.log("INFO", msg, args...) }
func (m *MockLogger) Warn(msg string, args ...any)         { m.log("WARN", msg, args...) }
func (m *MockLogger) Error(msg string, args ...any)        { m.log("ERROR", msg, args...) }
func (m *MockLogger) With(args ...any) logger.Interface    { return m }
func (m *MockLogger) Named(name string) logger.Interface   { return m }
func (m *MockLogger) Debugw(msg string, kv ...interface{}) { m.log("DEBUG", msg, kv...) }
func (m *MockLogger) Infow(msg string, kv ...interface{})  { m.log("INFO", msg, kv...) }
func (m *MockLogger) Warnw(msg string, kv ...interface{})  { m.log("WARN", msg, kv...) }
func (m *MockLogger) Errorw(msg string, kv ...interface{}) { m.log("ERROR", msg, kv...) }

func (m *MockLogger) log(level, msg string, fields ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// Entries returns the recorded entries at level, or all entries when level is empty.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LogEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// RecordingNotifier keeps every message it is asked to deliver.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []notification.Message
	failWith error
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) FailWith(err error) {
	n.mu.Lock()
	n.failWith = err
	n.mu.Unlock()
}

func (n *RecordingNotifier) Notify(ctx context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failWith != nil {
		return n.failWith
	}
	n.messages = append(n.messages, msg)
	return nil
}

func (n *RecordingNotifier) Messages() []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.Message, len(n.messages))
	copy(out, n.messages)
	return out
}

// Kinds lists the kinds of the recorded messages sent to recipientID.
func (n *RecordingNotifier) Kinds(recipientID uint) []notification.Kind {
	var kinds []notification.Kind
	for _, m := range n.Messages() {
		if m.Recipient.ID == recipientID {
			kinds = append(kinds, m.Kind)
		}
	}
	return kinds
}

func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	n.messages = nil
	n.mu.Unlock()
}

// SyncPublisher delivers synchronously so tests can assert right after the call.
type SyncPublisher struct {
	Notifier notification.Notifier
}

func (p *SyncPublisher) Publish(ctx context.Context, msgs ...notification.Message) {
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			panic(fmt.Sprintf("invalid notification published: %v", err))
		}
		_ = p.Notifier.Notify(ctx, m)
	}
}

// MemoryLimiter is an in-process failed attempt counter.
type MemoryLimiter struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
}

func NewMemoryLimiter(max int) *MemoryLimiter {
	return &MemoryLimiter{max: max, failures: make(map[string]int)}
}

func (l *MemoryLimiter) IsLocked(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.max > 0 && l.failures[key] >= l.max, nil
}

func (l *MemoryLimiter) RecordFailure(ctx context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key]++
	return l.failures[key], nil
}

func (l *MemoryLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
	return nil
}
