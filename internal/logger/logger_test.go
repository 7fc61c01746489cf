package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output into a buffer for the duration of the
// test and restores the defaults afterwards.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("chunked %d documents", 3)
	Info("collection %q ready", "corpus")
	Warn("closing store: %v", os.ErrClosed)
	Section("Index Build")

	assert.Equal(t,
		"[DEBUG] chunked 3 documents\n"+
			"[INFO] collection \"corpus\" ready\n"+
			"[WARN] closing store: file already closed\n"+
			"\n=== Index Build ===\n",
		buf.String())
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Zero(t, buf.Len())
}

func TestConcurrentUse(t *testing.T) {
	capture(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
