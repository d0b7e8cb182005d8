package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/internal/wizard"
	"github.com/goliatone/go-formbuilder/pkg/codegen"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/preview"
)

const signupJSON = `{"name":"Signup","fields":[{"type":"text","name":"first","label":"First","config":{"required":true}},{"type":"email","name":"mail","label":"Mail"}]}`

type abortDriver struct{}

func (abortDriver) Input(context.Context, wizard.InputConfig) (string, error) {
	return "", wizard.ErrAborted
}
func (abortDriver) Confirm(context.Context, wizard.ConfirmConfig) (bool, error) {
	return false, wizard.ErrAborted
}
func (abortDriver) Select(context.Context, wizard.SelectConfig) (int, error) {
	return 0, wizard.ErrAborted
}
func (abortDriver) TextArea(context.Context, wizard.TextAreaConfig) (string, error) {
	return "", wizard.ErrAborted
}
func (abortDriver) Info(context.Context, string) error { return nil }

type harness struct {
	t       *testing.T
	dir     string
	storage string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{t: t, dir: dir, storage: "file:" + filepath.Join(dir, "state.json")}
}

func (h *harness) write(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := New(CommandContext{
		StdOut: &out,
		StdErr: io.Discard,
		StdIn:  strings.NewReader(""),
		Driver: abortDriver{},
	})
	cmd.SetArgs(append([]string{"--storage", h.storage}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateWritesRegistryOutput(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	source := h.write("signup.json", signupJSON)

	out, err := h.run("generate", "--format", "json", source)
	require.NoError(t, err)

	def := model.FormDefinition{Settings: model.DefaultSettings()}
	require.NoError(t, json.Unmarshal([]byte(signupJSON), &def))
	want, err := codegen.Generate(def, codegen.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(want, "\n")+"\n", out)

	target := filepath.Join(h.dir, "signup.ts")
	_, err = h.run("generate", "--format", "schema", "--module", "@acme/forms", "--output", target, source)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@acme/forms")
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	source := h.write("signup.json", signupJSON)

	_, err := h.run("generate", "--format", "xml", source)
	require.ErrorIs(t, err, codegen.ErrUnknownFormat)
}

func TestLintExitStatus(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run("lint", h.write("signup.json", signupJSON))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	dup := h.write("dup.yaml", "name: Dup\nfields:\n  - {type: text, name: a, label: A}\n  - {type: text, name: a, label: B}\n")
	out, err = h.run("lint", dup)
	require.ErrorIs(t, err, ErrLintFailed)
	assert.Contains(t, out, "duplicate-name")
}

func TestPreviewReadsValues(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	source := h.write("signup.json", signupJSON)
	values := h.write("values.yaml", "first: Ada\n")

	out, err := h.run("preview", "--values", values, source)
	require.NoError(t, err)

	var result preview.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Validation.Valid)
	assert.Equal(t, []string{"first", "mail"}, result.Visible())

	out, err = h.run("preview", source)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Validation.Valid)
}

func TestImportPersistsAcrossRuns(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run("import", h.write("signup.json", signupJSON))
	require.NoError(t, err)
	assert.Contains(t, out, `Imported 2 fields into "Signup"`)

	out, err = h.run("forms", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Signup")
	assert.Contains(t, out, " *")

	out, err = h.run("forms", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Signup")
	assert.Contains(t, out, "name: mail")
}

func TestFormsLifecycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run("forms", "new", "--description", "first one", "Alpha")
	require.NoError(t, err)
	alpha := strings.TrimSpace(out)
	require.NotEmpty(t, alpha)

	out, err = h.run("forms", "new", "Beta")
	require.NoError(t, err)
	beta := strings.TrimSpace(out)
	require.NotEqual(t, alpha, beta)

	require.NoError(t, runErr(h.run("forms", "load", alpha)))
	out, err = h.run("forms", "list")
	require.NoError(t, err)
	assert.Contains(t, out, alpha+" *")

	require.NoError(t, runErr(h.run("forms", "delete", beta)))
	out, err = h.run("forms", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Beta")

	_, err = h.run("forms", "load", "missing")
	require.Error(t, err)
}

func TestThemePreference(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	require.NoError(t, runErr(h.run("theme", "dark")))
	out, err = h.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = h.run("theme", "neon")
	require.Error(t, err)
}

func TestAddAbortLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.run("add")
	require.ErrorIs(t, err, wizard.ErrAborted)
	_, statErr := os.Stat(filepath.Join(h.dir, "state.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatsAndFlags(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run("formats")
	require.NoError(t, err)
	assert.Equal(t, "json\nopenapi\nschema\nyaml\n", out)

	_, err = h.run("--log-level", "loud", "formats")
	require.Error(t, err)

	_, err = h.run("--log-format", "xml", "formats")
	require.Error(t, err)
}

func runErr(_ string, err error) error { return err }
