package capture

import (
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	childEnv  = "CRASHLOG_TEST_CHILD"
	fileEnv   = "CRASHLOG_TEST_FILE"
	markerEnv = "CRASHLOG_TEST_MARKER"
)

// inChild reports whether this test binary was started by runChild for
// the named scenario.
func inChild(name string) bool {
	return os.Getenv(childEnv) == name
}

// runChild re-runs the current test in a new process with the given
// scenario and returns its combined output and exit error.
func runChild(t *testing.T, name string, env ...string) (string, error) {
	cmd := exec.Command(os.Args[0], "-test.run=^"+t.Name()+"$", "-test.v")
	cmd.Env = append(os.Environ(), childEnv+"="+name)
	cmd.Env = append(cmd.Env, env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func markCleanup(interface{}) {
	if path := os.Getenv(markerEnv); path != "" {
		_ = os.WriteFile(path, []byte("cleanup"), 0644)
	}
}

func TestGoWorkerFaultCrashes(t *testing.T) {
	if inChild("go") {
		s := Initialise(Options{
			File:             os.Getenv(fileEnv),
			HandleExceptions: true,
			Cleanup:          CleanerFunc(markCleanup),
		})
		s.Go(nilDeref)

		time.Sleep(10 * time.Second)
		t.Fatal("worker fault did not end the process")
		return
	}

	path := crashFile(t)
	marker := crashFile(t) + ".marker"
	out, err := runChild(t, "go", fileEnv+"="+path, markerEnv+"="+marker)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, out)
	assert.Contains(t, out, "nil pointer dereference")
	assert.FileExists(t, marker)

	lines := readLines(t, path)
	assert.Equal(t, "EXCEPTION_ACCESS_VIOLATION", lines[0])
	assert.Contains(t, lines, "trigger: fault")
}
