package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// Config define o formato e o nível do logger.
type Config struct {
	Env   string // development -> console legível; demais -> JSON
	Level string // debug, info, warn, error
}

// ZeroLogger implementa Logger sobre o zerolog.
type ZeroLogger struct {
	zl zerolog.Logger
}

// New cria o logger estruturado a partir da configuração.
func New(cfg Config) *ZeroLogger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return NewWithWriter(w, cfg.Level)
}

// NewWithWriter cria um logger JSON escrevendo em w. Usado nos testes para capturar a saída.
func NewWithWriter(w io.Writer, level string) *ZeroLogger {
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &ZeroLogger{zl: zl}
}

// NewLogger mantém a assinatura usada nos testes e ferramentas: JSON no stdout.
func NewLogger(level string) Logger {
	return NewWithWriter(os.Stdout, level)
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}

// Fatal registra o erro e encerra o processo.
func (l *ZeroLogger) Fatal(msg string, err error) {
	l.zl.Fatal().Err(err).Msg(msg)
}
