package queue

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// zerologLogger routes asynq's internal logs into the global zerolog logger.
type zerologLogger struct{}

func (zerologLogger) Debug(args ...interface{}) {
	log.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologLogger) Info(args ...interface{}) {
	log.Info().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologLogger) Warn(args ...interface{}) {
	log.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologLogger) Error(args ...interface{}) {
	log.Error().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologLogger) Fatal(args ...interface{}) {
	log.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
