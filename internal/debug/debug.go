package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvVar names the variable holding the log path.
const EnvVar = "EINK_DEBUG"

var (
	mu      sync.Mutex
	once    sync.Once
	logFile *os.File
	logger  = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// Init opens path for appending and sends all debug output there.
func Init(path string) error {
	once.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	return initLocked(path)
}

// initLocked does the actual init work. Caller must hold mu.
func initLocked(path string) error {
	if path == "" {
		path = "debug.log"
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	logger.SetOutput(f)
	return nil
}

// SetOutput redirects debug output, mostly for tests.
func SetOutput(w io.Writer) {
	once.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Close closes the debug log file and silences output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	logger.SetOutput(io.Discard)
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func ensure() {
	once.Do(func() {
		path := os.Getenv(EnvVar)
		if path == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := initLocked(path); err != nil {
			fmt.Fprintf(os.Stderr, "eink: %v\n", err)
		}
	})
}

// With returns an entry tagged with the component name.
func With(component string) *logrus.Entry {
	ensure()
	return logger.WithField("component", component)
}
