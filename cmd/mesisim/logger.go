package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// initLogger sets up Apex with a custom handler and a log level from the
// MESISIM_LOG env variable.
func initLogger() {
	level := strings.ToUpper(os.Getenv("MESISIM_LOG"))
	if level == "" {
		level = "INFO"
	}
	log.SetHandler(&stderrHandler{})
	log.SetLevelFromString(level)
}

// stderrHandler formats log messages and writes them to stderr, keeping
// stdout free for the simulation trace.
type stderrHandler struct{}

// HandleLog implements the log.Handler interface
func (h *stderrHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())
	fmt.Fprintf(os.Stderr, "%s %.1s %s\n", timestamp, level, e.Message)
	return nil
}
