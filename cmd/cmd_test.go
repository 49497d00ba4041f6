package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// fakeReplayGain prints a python-rgain style report and fails on files
// containing CORRUPT
const fakeReplayGain = `#!/bin/sh
file="$2"
if [ ! -f "$file" ]; then
  echo "$file: No such file or directory" >&2
  exit 1
fi
if grep -q CORRUPT "$file"; then
  echo "GStreamer: could not determine type of stream" >&2
  exit 2
fi
echo "Calculating Replay Gain information ..."
echo "  $file: 5.02 dB"
echo "  Album: 5.02 dB"
`

type testEnv struct {
	dir    string
	tool   string
	dbPath string
	config string
}

// setupCLI isolates viper state and the working directory, and writes a
// config file pointing at a fake tool and a temporary database
func setupCLI(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools are not supported on windows")
	}

	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Chdir(dir)

	env := &testEnv{
		dir:    dir,
		tool:   filepath.Join(dir, "fake-replaygain"),
		dbPath: filepath.Join(dir, "history.db"),
		config: filepath.Join(dir, "settings.yaml"),
	}
	require.NoError(t, os.WriteFile(env.tool, []byte(fakeReplayGain), 0755))

	settings := fmt.Sprintf(`
server:
  host: 127.0.0.1
  media_root: %q
database:
  path: %q
analyzer:
  executable: %q
  timeout: 10s
logging:
  level: error
`, dir, env.dbPath, env.tool)
	require.NoError(t, os.WriteFile(env.config, []byte(settings), 0644))

	return env
}

// writeAudio writes a stand-in audio file under the test directory
func (e *testEnv) writeAudio(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes the CLI with the test config and returns stdout and stderr
func (e *testEnv) run(args ...string) (string, string, error) {
	return execute(append([]string{"--config", e.config}, args...)...)
}

func execute(args ...string) (string, string, error) {
	cmd := NewRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
