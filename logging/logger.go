package logging

import (
	"bytes"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/curtisnewbie/rfctime/util/strutil"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

const (
	callerField = "caller"

	fnWidth    = 30
	levelWidth = 5
)

var (
	bufPool = sync.Pool{
		New: func() any {
			return &bytes.Buffer{}
		},
	}

	pcPool = sync.Pool{
		New: func() any {
			p := make([]uintptr, 4)
			return &p
		},
	}
)

func init() {
	// caller field is filled by getCallerFn
	logrus.SetReportCaller(false)
	logrus.SetFormatter(&CTFormatter{})
}

// Fixed-width text formatter: time, level, caller and message.
//
//	2020-01-01 08:00:00.000 INFO  main.main                      : parsed 2020-01-01T00:00:00Z
type CTFormatter struct {
}

func (c *CTFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	fn, _ := entry.Data[callerField].(string)

	b := bufPool.Get().(*bytes.Buffer)
	defer func() {
		b.Reset()
		bufPool.Put(b)
	}()

	b.WriteString(entry.Time.Format("2006-01-02 15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(strutil.PadRight(levelName(entry.Level), levelWidth))
	b.WriteByte(' ')
	b.WriteString(strutil.PadRight(fn, fnWidth))
	b.WriteString(" : ")
	b.WriteString(entry.Message)
	b.WriteByte('\n')

	// b goes back to the pool once Format returns
	return bytes.Clone(b.Bytes()), nil
}

// logrus names WarnLevel 'warning', it's shortened to fit the level column.
func levelName(level logrus.Level) string {
	if level == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(level.String())
}

type NewRollingLogFileParam struct {
	Filename   string
	MaxSize    int // mb
	MaxAge     int // days
	MaxBackups int
}

// Create lumberjack writer that rotates the log file by size.
func BuildRollingLogFileWriter(p NewRollingLogFileParam) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   p.Filename,
		MaxSize:    p.MaxSize,
		MaxAge:     p.MaxAge,
		MaxBackups: p.MaxBackups,
		LocalTime:  true,
	}
}

// Set log level, e.g., 'debug', 'INFO', returns false if the level is unknown.
func SetLogLevel(level string) bool {
	ll, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return false
	}
	logrus.SetLevel(ll)
	return true
}

func SetLogOutput(out io.Writer) {
	logrus.SetOutput(out)
}

func Debugf(format string, args ...any) {
	logf(logrus.DebugLevel, format, args...)
}

func Infof(format string, args ...any) {
	logf(logrus.InfoLevel, format, args...)
}

func Errorf(format string, args ...any) {
	logf(logrus.ErrorLevel, format, args...)
}

func logf(level logrus.Level, format string, args ...any) {
	if !logrus.IsLevelEnabled(level) {
		return
	}
	logrus.WithField(callerField, getCallerFn()).Logf(level, format, args...)
}

// Short name of the function calling Debugf, Infof or Errorf, e.g., 'config.(*AppConfig).ApplyGlobal'.
func getCallerFn() string {
	pcs := pcPool.Get().(*[]uintptr)
	defer pcPool.Put(pcs)

	// skip runtime.Callers, getCallerFn, logf and Debugf/Infof/Errorf
	n := runtime.Callers(4, *pcs)
	if n < 1 {
		return ""
	}
	f, _ := runtime.CallersFrames((*pcs)[:n]).Next()
	fn := f.Function
	if i := strings.LastIndexByte(fn, '/'); i > -1 {
		fn = fn[i+1:]
	}
	return fn
}
