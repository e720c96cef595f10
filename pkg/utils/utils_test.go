package utils

import (
	"testing"
	"time"

	"golang-stock-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoSafeRecoversFromPanic(t *testing.T) {
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	done := make(chan struct{})
	GoSafe(log, func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panicking task never finished")
	}

	// A second task still runs after the first one panicked.
	ran := make(chan struct{})
	GoSafe(log, func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("follow-up task never ran")
	}
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "Netflix_NFLX", SanitizeFileName("Netflix (NFLX)"))
	assert.Equal(t, "Berkshire_Hathaway_BRK.B", SanitizeFileName(" Berkshire Hathaway (BRK.B) "))
	assert.Equal(t, "a-b", SanitizeFileName("a/b"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))

	long := TruncateText("abcdefghij", 4)
	assert.Equal(t, "abcd\n[... truncated ...]", long)
}

func TestSafeText(t *testing.T) {
	assert.Equal(t, "ab", SafeText("a\x00b"))
	assert.Equal(t, "ok", SafeText("ok"))
}
