//go:build unix

package capture

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestConsoleSignalTerminates(t *testing.T) {
	if inChild("interrupt") {
		if signal.Ignored(syscall.SIGINT) {
			fmt.Println("SIGINT IGNORED")
			return
		}
		Initialise(Options{
			File:          os.Getenv(fileEnv),
			HandleConsole: true,
			Cleanup:       CleanerFunc(markCleanup),
		})
		require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGINT))

		time.Sleep(10 * time.Second)
		fmt.Println("SURVIVED")
		return
	}

	path := crashFile(t)
	marker := crashFile(t) + ".marker"
	out, err := runChild(t, "interrupt", fileEnv+"="+path, markerEnv+"="+marker)
	if err == nil && strings.Contains(out, "SIGINT IGNORED") {
		t.Skip("SIGINT is ignored by the test environment")
	}

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, out)
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	require.True(t, ok)
	assert.True(t, status.Signaled(), out)
	assert.Equal(t, syscall.SIGINT, status.Signal())
	assert.NotContains(t, out, "SURVIVED")

	assert.FileExists(t, marker)
	assert.NoFileExists(t, path)
}

// The host's own subscription keeps the signal once capture is done with
// it.
func TestConsoleSignalReachesHostHandler(t *testing.T) {
	if inChild("host") {
		own := make(chan os.Signal, 1)
		signal.Notify(own, syscall.SIGTERM)

		cleaned := make(chan struct{})
		Initialise(Options{
			HandleConsole: true,
			Cleanup: CleanerFunc(func(interface{}) {
				close(cleaned)
			}),
		})
		require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGTERM))

		<-own
		select {
		case <-cleaned:
		case <-time.After(5 * time.Second):
			t.Fatal("cleanup did not run")
		}
		time.Sleep(200 * time.Millisecond)
		fmt.Println("GRACEFUL SHUTDOWN DONE")
		return
	}

	out, err := runChild(t, "host")
	require.NoError(t, err, out)
	assert.Contains(t, out, "GRACEFUL SHUTDOWN DONE")
}

// A signal ignored at startup doesn't use up the capture; the fault that
// follows is still reported.
func TestIgnoredSignalKeepsCapture(t *testing.T) {
	if inChild("ignored") {
		signal.Ignore(syscall.SIGHUP)
		s := Initialise(Options{
			File:             os.Getenv(fileEnv),
			HandleConsole:    true,
			HandleExceptions: true,
		})
		require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGHUP))
		time.Sleep(100 * time.Millisecond)
		fmt.Printf("captured=%v\n", s.Captured())

		defer s.Fault()
		nilDeref()
		return
	}

	path := crashFile(t)
	out, err := runChild(t, "ignored", fileEnv+"="+path)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, out)
	assert.Contains(t, out, "captured=false")

	lines := readLines(t, path)
	assert.Equal(t, "EXCEPTION_ACCESS_VIOLATION", lines[0])
}
