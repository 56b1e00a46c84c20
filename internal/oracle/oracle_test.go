package oracle_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"unimoji/internal/oracle"
)

type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitError) ExitCode() int { return e.code }

type stubExecutor struct {
	result oracle.Result
	err    error
	calls  int
	binary string
	args   [][]string
	stdin  [][]byte
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, stdin []byte) (oracle.Result, error) {
	s.calls++
	s.binary = binary
	s.args = append(s.args, append([]string(nil), args...))
	s.stdin = append(s.stdin, stdin)
	return s.result, s.err
}

func newUni(t *testing.T, exec oracle.Executor) *oracle.Uni {
	t.Helper()
	client, err := oracle.NewUni("uni", "none,light", "all", oracle.WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewUni returned error: %v", err)
	}
	return client
}

func TestNewUniRequiresBinary(t *testing.T) {
	if _, err := oracle.NewUni("  ", "none", "all"); err == nil {
		t.Fatal("expected error for blank binary")
	}
}

func TestUniArguments(t *testing.T) {
	client := newUni(t, &stubExecutor{})
	batch := strings.Join(client.BatchArgs(), " ")
	if batch != "emoji -tone=none,light -gender=all -as=json -format=%(emoji)" {
		t.Fatalf("unexpected batch args: %s", batch)
	}
	query := client.QueryArgs("grinning")
	if strings.Join(query, " ") != "emoji -tone=none,light -gender=all -as=json -format=all grinning" {
		t.Fatalf("unexpected query args: %v", query)
	}
}

func TestBatchGlyphsParsesAndDeduplicates(t *testing.T) {
	stub := &stubExecutor{result: oracle.Result{
		Stdout: []byte(`[{"emoji":"😀"},{"emoji":"👍"},{"emoji":"😀"},{"emoji":""}]`),
	}}
	client := newUni(t, stub)

	glyphs, err := client.BatchGlyphs(context.Background())
	if err != nil {
		t.Fatalf("BatchGlyphs returned error: %v", err)
	}
	if strings.Join(glyphs, ",") != "😀,👍" {
		t.Fatalf("unexpected glyphs: %v", glyphs)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one invocation, got %d", stub.calls)
	}
	if stub.stdin[0] == nil || len(stub.stdin[0]) != 0 {
		t.Fatalf("expected empty non-nil stdin for batch call, got %#v", stub.stdin[0])
	}
}

func TestBatchGlyphsMalformedOutput(t *testing.T) {
	client := newUni(t, &stubExecutor{result: oracle.Result{Stdout: []byte("not json")}})
	_, err := client.BatchGlyphs(context.Background())
	if !errors.Is(err, oracle.ErrFailure) {
		t.Fatalf("expected ErrFailure, got %v", err)
	}
	if out, ok := oracle.Output(err); !ok || out != "not json" {
		t.Fatalf("expected raw output on error, got %q (%v)", out, ok)
	}
}

func TestQueryReturnsEntries(t *testing.T) {
	stub := &stubExecutor{result: oracle.Result{Stdout: []byte(`[
		{"name":"grinning face","group":"Smileys & Emotion","emoji":"😀","cldr_full":"face | grin | grinning face","cpoint":"U+1F600"}
	]`)}}
	client := newUni(t, stub)

	entries, err := client.Query(context.Background(), "grinning")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Emoji != "😀" || entries[0].CLDRFull != "face | grin | grinning face" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if stub.calls != 1 {
		t.Fatalf("expected exactly one oracle invocation, got %d", stub.calls)
	}
}

func TestQueryNoMatchesIsEmpty(t *testing.T) {
	stub := &stubExecutor{
		result: oracle.Result{Stderr: []byte("uni: no matches\n")},
		err:    exitError{code: 1},
	}
	client := newUni(t, stub)

	entries, err := client.Query(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("expected nil error for no matches, got %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", entries)
	}
}

func TestQueryFailureCarriesOutput(t *testing.T) {
	tests := []struct {
		name   string
		result oracle.Result
		err    error
		code   int
	}{
		{"exit one with other message", oracle.Result{Stderr: []byte("uni: no matches for you\n")}, exitError{code: 1}, 1},
		{"exit two", oracle.Result{Stderr: []byte("uni: invalid flag\n")}, exitError{code: 2}, 2},
		{"exit zero malformed", oracle.Result{Stdout: []byte("{broken")}, nil, 0},
		{"exit zero empty", oracle.Result{Stdout: []byte("  \n")}, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newUni(t, &stubExecutor{result: tc.result, err: tc.err})
			_, err := client.Query(context.Background(), "x")
			if !errors.Is(err, oracle.ErrFailure) {
				t.Fatalf("expected ErrFailure, got %v", err)
			}
			var oerr *oracle.Error
			if !errors.As(err, &oerr) {
				t.Fatalf("expected *oracle.Error, got %T", err)
			}
			if oerr.ExitCode != tc.code {
				t.Fatalf("expected exit code %d, got %d", tc.code, oerr.ExitCode)
			}
			if oerr.Output != tc.result.Combined() {
				t.Fatalf("expected raw output %q, got %q", tc.result.Combined(), oerr.Output)
			}
		})
	}
}

func TestQueryMissingBinary(t *testing.T) {
	client, err := oracle.NewUni(filepath.Join(t.TempDir(), "no-such-uni"), "none", "all")
	if err != nil {
		t.Fatalf("NewUni returned error: %v", err)
	}
	_, err = client.Query(context.Background(), "x")
	if !errors.Is(err, oracle.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, oracle.ErrFailure) {
		t.Fatalf("missing binary should not be classified as a failure: %v", err)
	}
}

func TestNoMatchesMessageFollowsBinaryName(t *testing.T) {
	client, err := oracle.NewUni("/opt/tools/uni2", "none", "all")
	if err != nil {
		t.Fatalf("NewUni returned error: %v", err)
	}
	if got := client.NoMatchesMessage(); got != "uni2: no matches\n" {
		t.Fatalf("unexpected sentinel %q", got)
	}
}

func TestQueryWithStubProgram(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	script := `#!/bin/sh
for last; do :; done
if [ "$last" = "nothing" ]; then
  echo "uni: no matches" >&2
  exit 1
fi
if [ "$last" = "broken" ]; then
  echo "uni: database unavailable" >&2
  exit 3
fi
printf '[{"name":"thumbs up","group":"People & Body","emoji":"\360\237\221\215","cldr_full":"thumbs up"}]\n'
`
	bin := filepath.Join(dir, "uni")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	client, err := oracle.NewUni(bin, "none", "all", oracle.WithTimeout(10*time.Second))
	if err != nil {
		t.Fatalf("NewUni returned error: %v", err)
	}

	entries, err := client.Query(context.Background(), "thumbs")
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Emoji != "👍" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	entries, err = client.Query(context.Background(), "nothing")
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty result for no matches, got %v, %v", entries, err)
	}

	_, err = client.Query(context.Background(), "broken")
	var oerr *oracle.Error
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *oracle.Error, got %v", err)
	}
	if oerr.ExitCode != 3 || !strings.Contains(oerr.Output, "database unavailable") {
		t.Fatalf("unexpected error detail: %+v", oerr)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected wrapped *exec.ExitError, got %v", err)
	}
}

func TestConvertRenderArguments(t *testing.T) {
	stub := &stubExecutor{}
	renderer, err := oracle.NewConvert("convert", 64, oracle.WithExecutor(stub))
	if err != nil {
		t.Fatalf("NewConvert returned error: %v", err)
	}
	if err := renderer.Render(context.Background(), "😀", "/tmp/icons/tmp-1.png"); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := "-pointsize 64 -background transparent pango:😀 /tmp/icons/tmp-1.png"
	if got := strings.Join(stub.args[0], " "); got != want {
		t.Fatalf("unexpected args:\n got %s\nwant %s", got, want)
	}
	if stub.binary != "convert" {
		t.Fatalf("unexpected binary %q", stub.binary)
	}
}

func TestConvertRenderFailure(t *testing.T) {
	stub := &stubExecutor{
		result: oracle.Result{Stderr: []byte("convert: no font\n")},
		err:    exitError{code: 1},
	}
	renderer, err := oracle.NewConvert("convert", 64, oracle.WithExecutor(stub))
	if err != nil {
		t.Fatalf("NewConvert returned error: %v", err)
	}
	err = renderer.Render(context.Background(), "😀", "/tmp/out.png")
	if !errors.Is(err, oracle.ErrFailure) {
		t.Fatalf("expected ErrFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "no font") {
		t.Fatalf("expected output in error message, got %v", err)
	}
}

func TestNewConvertValidation(t *testing.T) {
	if _, err := oracle.NewConvert("", 64); err == nil {
		t.Fatal("expected error for blank binary")
	}
	if _, err := oracle.NewConvert("convert", 0); err == nil {
		t.Fatal("expected error for zero point size")
	}
}

func TestTimeoutIsReportedAsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "uni")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	client, err := oracle.NewUni(bin, "none", "all", oracle.WithTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("NewUni returned error: %v", err)
	}
	_, err = client.BatchGlyphs(context.Background())
	if !errors.Is(err, oracle.ErrFailure) {
		t.Fatalf("expected ErrFailure, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline in error chain, got %v", err)
	}
}

func TestTimeoutNotHeldOpenByChildProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "convert")
	// The background sleep inherits stdout and outlives the killed shell.
	script := "#!/bin/sh\nsleep 30 &\nsleep 30\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	renderer, err := oracle.NewConvert(bin, 64, oracle.WithTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("NewConvert returned error: %v", err)
	}

	start := time.Now()
	err = renderer.Render(context.Background(), "😀", filepath.Join(t.TempDir(), "out.png"))
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline in error chain, got %v", err)
	}
	if elapsed > 15*time.Second {
		t.Fatalf("render outlived its timeout by %s", elapsed)
	}
}
