package main

import (
	"bytes"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"b64": func() int {
			return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
		},
	}))
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--env-file", ""}, args...)
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunEncodeDecode(t *testing.T) {
	code, stdout, stderr := runCLI(t, "foobar", "encode")
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "Zm9vYmFy\n", stdout)

	code, stdout, stderr = runCLI(t, "Zm9vYmFy\r\n", "decode")
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "foobar", stdout)

	code, stdout, _ = runCLI(t, "\xfb\xff", "--url", "encode")
	assert.Equal(t, 0, code)
	assert.Equal(t, "-_8=\n", stdout)
}

func TestRunErrors(t *testing.T) {
	code, _, stderr := runCLI(t, "Zm9", "decode")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: error decoding base64 data: base64: input length is not a multiple of 4\n", stderr)

	code, _, stderr = runCLI(t, "", "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	code, _, stderr := runCLI(t, "", "serve", "--port", "70000")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid config")

	t.Setenv("B64_BODY_LIMIT", "lots")
	code, _, stderr = runCLI(t, "", "serve")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid config")
	assert.Contains(t, stderr, "BodyLimit")
}

func TestLengthEncodeOverflow(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "length", "encode", "9223372036854775807")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "encoded length overflows int")
}

// serveOnBusyPort runs serve against a port that is already taken, so Start
// fails right after the startup log lines are written.
func serveOnBusyPort(t *testing.T) (int, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	code, _, _ := runCLI(t, "", "serve", "--host", "127.0.0.1", "--port", port)
	return code, buf.String()
}

func TestServeLogs(t *testing.T) {
	code, logs := serveOnBusyPort(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, logs, "Listening on 127.0.0.1:")
}

func TestServeSilent(t *testing.T) {
	t.Setenv("B64_LOG_SILENT", "true")
	code, logs := serveOnBusyPort(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, logs)
}

func TestTrimNewlines(t *testing.T) {
	assert.Equal(t, "abc", trimNewlines("abc\r\n\n"))
	assert.Equal(t, "", trimNewlines("\n"))
	assert.Equal(t, "a\nb", trimNewlines("a\nb"))
}
