package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/foldertodo/internal/commands"
	"github.com/temirov/foldertodo/internal/types"
	"github.com/temirov/foldertodo/internal/utils"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type commandResult struct {
	stdout string
	stderr string
	err    error
}

func newTestEnvironment(t *testing.T, workingDirectory string) (environment, *recordingCopier) {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	copier := &recordingCopier{}
	return environment{
		logger:           zap.NewNop(),
		level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		copier:           copier,
		workingDirectory: workingDirectory,
	}, copier
}

func runCommand(env environment, arguments ...string) commandResult {
	rootCommand := createRootCommand(env)
	var stdout, stderr bytes.Buffer
	rootCommand.SetOut(&stdout)
	rootCommand.SetErr(&stderr)
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, arguments))
	executionError := rootCommand.Execute()
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: executionError}
}

func createProject(t *testing.T) string {
	t.Helper()
	projectDirectory := t.TempDir()
	if err := os.MkdirAll(filepath.Join(projectDirectory, "docs #backend"), 0o755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(projectDirectory, "web", "assets"), 0o755); err != nil {
		t.Fatalf("mkdir web: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDirectory, "readme.md"), []byte("hello"), 0o600); err != nil {
		t.Fatalf("write readme: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDirectory, "web", "index.html"), []byte("<p>hi</p>"), 0o600); err != nil {
		t.Fatalf("write index: %v", err)
	}
	return projectDirectory
}

func TestRootCommandPrintsMarkdownChecklist(t *testing.T) {
	projectDirectory := createProject(t)
	env, copier := newTestEnvironment(t, projectDirectory)

	result := runCommand(env)
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	expectedLines := []string{
		"# Todo List for: " + filepath.Base(projectDirectory),
		"- [ ] **docs #backend/** `backend`",
		"- [ ] **web/**",
		"  - [ ] **assets/**",
		"  - [ ] index.html `(9 B)`",
		"- [ ] readme.md `(5 B)`",
	}
	for _, expectedLine := range expectedLines {
		if !strings.Contains(result.stdout, expectedLine+"\n") {
			t.Fatalf("expected line %q in output:\n%s", expectedLine, result.stdout)
		}
	}
	if len(copier.copied) != 0 {
		t.Fatalf("clipboard should not be used without --copy")
	}
}

func TestRootCommandFlagsOverrideConfiguration(t *testing.T) {
	projectDirectory := createProject(t)
	env, _ := newTestEnvironment(t, projectDirectory)
	configuration := "sizes: false\nfiles: false\nmax_depth: 0\n"
	if err := os.WriteFile(filepath.Join(projectDirectory, utils.ConfigFileName), []byte(configuration), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}

	fromFile := runCommand(env)
	if fromFile.err != nil {
		t.Fatalf("unexpected error: %v", fromFile.err)
	}
	if strings.Contains(fromFile.stdout, "- [ ]") {
		t.Fatalf("expected max_depth 0 from configuration to hide every item:\n%s", fromFile.stdout)
	}

	overridden := runCommand(env, "--max-depth", "unlimited", "--no-files", "false")
	if overridden.err != nil {
		t.Fatalf("unexpected error: %v", overridden.err)
	}
	if !strings.Contains(overridden.stdout, "  - [ ] index.html\n") {
		t.Fatalf("expected files without sizes after overriding configuration:\n%s", overridden.stdout)
	}
}

func TestRootCommandTagFilter(t *testing.T) {
	projectDirectory := createProject(t)
	env, _ := newTestEnvironment(t, projectDirectory)

	result := runCommand(env, "--tags", "backend", "--no-files")
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if !strings.HasSuffix(result.stdout, "## Directory Structure Tasks\n\n- [ ] **docs #backend/** `backend`\n") {
		t.Fatalf("unexpected filtered output:\n%s", result.stdout)
	}
}

func TestRootCommandFormats(t *testing.T) {
	projectDirectory := createProject(t)
	env, _ := newTestEnvironment(t, projectDirectory)

	jsonResult := runCommand(env, "--format", "JSON")
	if jsonResult.err != nil {
		t.Fatalf("unexpected error: %v", jsonResult.err)
	}
	var decoded types.ChecklistNode
	if err := json.Unmarshal([]byte(jsonResult.stdout), &decoded); err != nil {
		t.Fatalf("decode json output: %v", err)
	}
	if decoded.Name != filepath.Base(projectDirectory) || len(decoded.Children) != 3 {
		t.Fatalf("unexpected json tree: %+v", decoded)
	}

	htmlResult := runCommand(env, "--format", "html", "--collapsible")
	if htmlResult.err != nil {
		t.Fatalf("unexpected error: %v", htmlResult.err)
	}
	if !strings.Contains(htmlResult.stdout, `type="checkbox"`) || !strings.Contains(htmlResult.stdout, "<details>") {
		t.Fatalf("unexpected html output:\n%s", htmlResult.stdout)
	}

	invalid := runCommand(env, "--format", "xml")
	if invalid.err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestRootCommandWritesOutputFileAndCopies(t *testing.T) {
	projectDirectory := createProject(t)
	env, copier := newTestEnvironment(t, projectDirectory)
	outputDirectory := t.TempDir()
	destinationPath := filepath.Join(outputDirectory, "nested", "TODO.md")

	result := runCommand(env, "-o", destinationPath, "--copy")
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if result.stdout != "" {
		t.Fatalf("expected no stdout when writing a file, got %q", result.stdout)
	}
	if result.stderr != "Todo list saved to: "+destinationPath+"\n" {
		t.Fatalf("unexpected confirmation %q", result.stderr)
	}
	written, readError := os.ReadFile(destinationPath)
	if readError != nil {
		t.Fatalf("read output: %v", readError)
	}
	if len(copier.copied) != 1 || !strings.HasPrefix(string(written), copier.copied[0]) {
		t.Fatalf("expected the written checklist to be copied, got %v", copier.copied)
	}
}

func TestRootCommandMissingPath(t *testing.T) {
	env, _ := newTestEnvironment(t, t.TempDir())
	result := runCommand(env, "absent")
	if !errors.Is(result.err, commands.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", result.err)
	}
}

func TestRootCommandVersionAndVerbose(t *testing.T) {
	env, _ := newTestEnvironment(t, t.TempDir())
	result := runCommand(env, "--version", "--verbose")
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if !strings.HasPrefix(result.stdout, "foldertodo version: ") {
		t.Fatalf("unexpected version output %q", result.stdout)
	}
	if env.level.Level() != zapcore.DebugLevel {
		t.Fatalf("expected --verbose to enable debug logging, got %s", env.level.Level())
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	workingDirectory := t.TempDir()
	env, _ := newTestEnvironment(t, workingDirectory)

	result := runCommand(env, "init")
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	expectedPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if result.stdout != "Configuration written to: "+expectedPath+"\n" {
		t.Fatalf("unexpected init output %q", result.stdout)
	}
	if repeated := runCommand(env, "init"); repeated.err == nil {
		t.Fatalf("expected init to refuse overwriting without --force")
	}
	if forced := runCommand(env, "init", "--force"); forced.err != nil {
		t.Fatalf("unexpected error with --force: %v", forced.err)
	}

	checklist := runCommand(env)
	if checklist.err != nil {
		t.Fatalf("default configuration should load: %v", checklist.err)
	}
}
