package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	logDirName  = "logs"
	logFileName = "debug.log"
)

// setupLogging sends the standard logger to <dataDir>/logs/debug.log when
// debug is set and discards it otherwise. The returned file, if any, must be
// closed by the caller.
func setupLogging(dataDir string, debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	dir := filepath.Join(dataDir, logDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.Println("=== rigidsim debug session ===")
	return f
}
