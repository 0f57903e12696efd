package logger

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const LogDir = "logs"

func Init(file string) {
	log.Logger = zerolog.New(NewWriter(file)).With().Timestamp().Caller().Logger()
}

// New returns a component logger writing to the console and logs/<file>.
func New(file string) zerolog.Logger {
	return zerolog.New(NewWriter(file)).With().Timestamp().Caller().Logger()
}

func NewWriter(file string) io.Writer {
	return io.MultiWriter(
		NewConsoleWriter(),
		NewLumberjack(file),
	)
}

func NewConsoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

func NewLumberjack(file string) io.Writer {
	abs, err := filepath.Abs(".")
	if err != nil {
		panic(err)
	}

	return &lumberjack.Logger{
		Filename:   path.Join(abs, LogDir, file),
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
}
