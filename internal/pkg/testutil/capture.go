// Package testutil содержит общие утилиты для тестирования.
package testutil

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Output — перехваченные потоки процесса.
type Output struct {
	Stdout string
	Stderr string
}

// CaptureOutput выполняет fn, подменив os.Stdout и os.Stderr на pipe.
// Дочерние процессы, унаследовавшие потоки, пишут туда же.
// Pipe читаются параллельно, поэтому объём вывода не ограничен буфером pipe.
func CaptureOutput(t *testing.T, fn func()) Output {
	t.Helper()

	outR, outW, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe для stdout")
	errR, errW, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe для stderr")

	oldStdout, oldStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outW, errW
	defer func() { os.Stdout, os.Stderr = oldStdout, oldStderr }()

	var (
		wg             sync.WaitGroup
		stdout, stderr bytes.Buffer
	)
	drain := func(buf *bytes.Buffer, r *os.File) {
		defer wg.Done()
		_, _ = buf.ReadFrom(r) //nolint:errcheck // EOF после закрытия записи
		_ = r.Close()          //nolint:errcheck // test helper pipe close
	}
	wg.Add(2)
	go drain(&stdout, outR)
	go drain(&stderr, errR)

	fn()

	_ = outW.Close() //nolint:errcheck // test helper pipe close
	_ = errW.Close() //nolint:errcheck // test helper pipe close
	wg.Wait()

	return Output{Stdout: stdout.String(), Stderr: stderr.String()}
}
