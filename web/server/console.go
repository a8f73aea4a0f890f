package server

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ConsoleMessage is one log line of a render
type ConsoleMessage struct {
	RenderID  string
	Message   string
	Timestamp time.Time
	Level     string // "info", "warning", "error"
}

// WebLogger implements core.Logger by writing to the server log and,
// optionally, to a console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render. consoleChan
// may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", wl.renderID, strings.TrimSuffix(message, "\n"))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	}:
	default:
		// Channel full, skip
	}
}

// drainConsole returns the messages left in a closed console channel,
// without trailing newlines
func drainConsole(consoleChan <-chan ConsoleMessage) []string {
	messages := []string{}
	for msg := range consoleChan {
		messages = append(messages, strings.TrimSuffix(msg.Message, "\n"))
	}
	return messages
}
