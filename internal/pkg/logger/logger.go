package logger

import (
	"log"
	"os"
)

// StdLogger is a lightweight implementation backed by Go's log package. It
// writes to standard error so log lines never mix with generated text on
// standard output.
type StdLogger struct {
	logger  *log.Logger
	verbose bool
}

// NewStd creates a StdLogger. Warn and Error always print; Debug and Info
// only when verbose is set.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{
		logger:  log.New(os.Stderr, "[aicoder] ", 0),
		verbose: verbose,
	}
}

// SetVerbose enables Debug and Info output after construction; used when a
// flag parsed later than the logger is built asks for verbosity.
func (l *StdLogger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.print("DEBUG", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.print("INFO", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.print("WARN", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if err != nil {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["error"] = err.Error()
	}
	l.print("ERROR", msg, fields)
}

func (l *StdLogger) print(level, msg string, fields map[string]interface{}) {
	if len(fields) == 0 {
		l.logger.Println(level, msg)
		return
	}
	l.logger.Println(level, msg, fields)
}
