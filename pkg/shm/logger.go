package shm

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// Internal leveled logger. The default level is Warn; the process env
// SHMKIT_LOG_LEVEL overrides it.
type logger struct {
	name      string
	out       io.Writer
	callDepth int
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
	levelNoPrint
)

var (
	internalLogger = &logger{"", os.Stdout, 4}
	level          = levelWarn

	green  = string([]byte{27, 91, 57, 50, 109}) // Debug
	blue   = string([]byte{27, 91, 57, 52, 109}) // Info
	yellow = string([]byte{27, 91, 57, 51, 109}) // Warn
	red    = string([]byte{27, 91, 57, 49, 109}) // Error
	reset  = string([]byte{27, 91, 48, 109})

	colors    = []string{green, blue, yellow, red}
	levelName = []string{"Debug", "Info", "Warn", "Error"}
)

func init() {
	if v := os.Getenv("SHMKIT_LOG_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n <= levelNoPrint {
			level = n
		}
	}
}

// SetLogLevel changes the internal logger's level. The process env
// SHMKIT_LOG_LEVEL could also set it.
func SetLogLevel(l int) {
	if l <= levelNoPrint {
		level = l
	}
}

func (l *logger) errorf(format string, a ...interface{}) { l.printf(levelError, format, a...) }

func (l *logger) warnf(format string, a ...interface{}) { l.printf(levelWarn, format, a...) }

func (l *logger) infof(format string, a ...interface{}) { l.printf(levelInfo, format, a...) }

func (l *logger) debugf(format string, a ...interface{}) { l.printf(levelDebug, format, a...) }

func (l *logger) printf(lv int, format string, a ...interface{}) {
	if level > lv {
		return
	}
	if _, err := fmt.Fprintf(l.out, l.prefix(lv)+format+reset+"\n", a...); err != nil {
		fmt.Fprintf(os.Stderr, "logger printf failed: %v\n", err)
	}
}

func (l *logger) prefix(lv int) string {
	var buffer [64]byte
	buf := bytes.NewBuffer(buffer[:0])
	_, _ = buf.WriteString(colors[lv])
	_, _ = buf.WriteString(levelName[lv])
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(time.Now().Format("2006-01-02 15:04:05.999999"))
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.location())
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.name)
	_ = buf.WriteByte(' ')
	return buf.String()
}

func (l *logger) location() string {
	_, file, line, ok := runtime.Caller(l.callDepth)
	if !ok {
		file = "???"
		line = 0
	}
	file = filepath.Base(file)
	return file + ":" + strconv.Itoa(line)
}
