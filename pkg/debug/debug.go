// Package debug builds the zerolog loggers used by the tagsense commands.
package debug

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// DefaultTimeFormat is millisecond precision with no timezone.
const DefaultTimeFormat = "2006-01-02T15:04:05.0000Z"

func hackGetCallerSkipFrameCount(e *zerolog.Event) int {
	// zerolog keeps the skip count unexported
	v := reflect.ValueOf(e).Elem()
	field := v.FieldByName("skipFrame")

	if field.IsValid() && field.CanAddr() {
		return int(field.Int())
	}

	return 0
}

type TimeHook struct {
	Format string

	// Now is replaced in tests.
	Now func() time.Time
}

func (t TimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	format := t.Format
	if format == "" {
		format = DefaultTimeFormat
	}

	e.Str("time", now().Format(format))
}

type CallerHook struct {
	WithColor bool
}

func (c CallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(hackGetCallerSkipFrameCount(e) + 3)
	if !ok {
		return
	}

	funcd := runtime.FuncForPC(pc)
	if funcd == nil {
		return
	}

	pkg, _ := GetPackageAndFuncFromFuncName(funcd.Name())

	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

func GetPackageAndFuncFromFuncName(name string) (pkg, function string) {
	lastSlash := strings.LastIndexByte(name, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	firstDot := strings.IndexByte(name[lastSlash:], '.')
	if firstDot < 0 {
		return name, ""
	}
	firstDot += lastSlash

	pkg = name[:firstDot]
	function = name[firstDot+1:]

	if strings.Contains(pkg, ".(") {
		splt := strings.SplitN(pkg, ".(", 2)
		pkg = splt[0]
		function = "(" + splt[1] + "." + function
	}

	return pkg, function
}

func FormatCaller(pkg, path string, number int, colorize bool) string {
	p := FileNameOfPath(path)
	if colorize {
		p = color.New(color.Bold).Sprint(p)
		num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", number)
		sep := color.New(color.Faint).Sprint(":")

		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, p, sep, num)
	}

	return fmt.Sprintf("%s:%s:%d", pkg, p, number)
}

func FileNameOfPath(path string) string {
	tot := strings.Split(path, "/")
	if len(tot) > 1 {
		return tot[len(tot)-1]
	}

	return path
}

// Options configures NewLogger.
type Options struct {
	Out   io.Writer
	Level zerolog.Level

	// JSON writes raw zerolog events instead of console lines.
	JSON bool

	// Color enables ANSI colors in console output and caller names.
	Color bool

	// Caller adds the calling file and line to every event.
	Caller bool
}

// NewLogger builds the command logger.
func NewLogger(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, NoColor: !opts.Color, TimeFormat: DefaultTimeFormat}
	}

	logger := zerolog.New(out).Level(opts.Level).Hook(TimeHook{})
	if opts.Caller {
		logger = logger.Hook(CallerHook{WithColor: opts.Color && !opts.JSON})
	}
	return logger
}

// WithLogger attaches a logger built from opts to ctx.
func WithLogger(ctx context.Context, opts Options) context.Context {
	return NewLogger(opts).WithContext(ctx)
}
