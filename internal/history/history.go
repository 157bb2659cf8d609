// Package history appends one formatted line per chat event to a plain
// text file. This is the durable record of who said what; operational
// logging stays with zerolog and never goes here.
package history

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/luochenghuajin/clichatroom/internal/proto"
)

// Entry is one logged chat event, derived 1:1 from a Message.
type Entry struct {
	Timestamp int64
	EventType proto.MessageType
	Actor     string
	Target    string
	Content   string
}

// Logger serializes appends to a single history file.
type Logger struct {
	mu   sync.Mutex
	path string
}

// Open ensures the history file exists and returns a logger appending to it.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	return &Logger{path: path}, nil
}

// Write appends one formatted line for entry.
func (l *Logger) Write(entry Entry) error {
	line := fmt.Sprintf("%d | %d | %s | %s | %s\n",
		entry.Timestamp, int32(entry.EventType), entry.Actor, entry.Target, entry.Content)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// FromMessage logs an entry derived from msg.
func (l *Logger) FromMessage(msg proto.Message) error {
	return l.Write(Entry{
		Timestamp: msg.Timestamp,
		EventType: msg.Type,
		Actor:     msg.Sender,
		Target:    msg.Target,
		Content:   msg.Content,
	})
}

// System logs a server-originated text entry.
func (l *Logger) System(text string) error {
	return l.Write(Entry{
		Timestamp: time.Now().UnixMilli(),
		EventType: proto.SystemAnnouncement,
		Actor:     proto.ServerName,
		Content:   text,
	})
}
