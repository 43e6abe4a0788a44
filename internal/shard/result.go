package shard

import (
	"time"

	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/output"
)

// Result оборачивает план шарда в output.Result для SHARD_OUTPUT_FORMAT.
func (o *Outcome) Result(cmd string, dryRun bool, start time.Time, traceID string) *output.Result {
	return &output.Result{
		Status:   output.StatusSuccess,
		Command:  cmd,
		Data:     o.Plan,
		DryRun:   dryRun,
		Warnings: o.Warnings,
		Metadata: &output.Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    traceID,
			APIVersion: constants.APIVersion,
		},
	}
}
