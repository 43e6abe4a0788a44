// Package tracing генерирует trace ID для корреляции логов одного шарда
// и экспортирует span-ы через OpenTelemetry.
//
// Trace ID — 32 hex-символа (16 байт), совместимо с W3C Trace Context:
//
//	traceID := tracing.GenerateTraceID()
//	ctx = tracing.WithTraceID(ctx, traceID)
//	logger.With("trace_id", tracing.TraceIDFromContext(ctx)).Info("Сбор тестов")
package tracing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var fallbackCounter atomic.Uint64

// GenerateTraceID генерирует уникальный trace ID.
// При недоступности crypto/rand ID строится из времени и счётчика.
func GenerateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fallbackTraceID()
	}
	return hex.EncodeToString(b)
}

// fallbackTraceID — 16 hex-символов времени и 16 hex-символов счётчика.
func fallbackTraceID() string {
	counter := fallbackCounter.Add(1)
	timestamp := uint64(time.Now().UnixNano())
	return fmt.Sprintf("%016x%016x", timestamp, counter)
}
