package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

// run builds the hello binary into a temp directory, runs the tests and
// removes the binary.
func run(m *testing.M) int {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "find project root: %v\n", err)
		return 1
	}

	tmpDir, err := os.MkdirTemp("", "hello-test-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		return 1
	}
	defer os.RemoveAll(tmpDir)

	binPath := filepath.Join(tmpDir, "hello")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/hello")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
	} else {
		helloBin = binPath
	}

	return m.Run()
}
