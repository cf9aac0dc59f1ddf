package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const prefix = "[daylist] "

// Logger is never reassigned. Initialize and Discard swap its output.
var Logger = log.New(io.Discard, prefix, log.LstdFlags|log.Lshortfile)

var (
	logFile *os.File
	mu      sync.Mutex
)

// Falls back to debug.log in the working directory until Initialize
// points the logger at the config directory.
func init() {
	f, err := os.OpenFile("debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return
	}
	logFile = f
	Logger.SetOutput(f)
}

// Initialize reinitializes the logger to write to debug.log inside logDir.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" || logDir == "." {
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, "debug.log")

	Logger.Printf("Reinitializing logger to: %s", logPath)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		Logger.Printf("Failed to open new log file at %s: %v", logPath, err)
		return err
	}

	Logger.SetOutput(f)
	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	Logger.Printf("Logger successfully reinitialized to: %s", logPath)

	return nil
}

// Discard silences the logger.
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	Logger.SetOutput(io.Discard)
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	Logger.SetOutput(io.Discard)
	err := logFile.Close()
	logFile = nil
	return err
}
