package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDefinition = `title: CLI
markup: >-
  <form><div wicket:id="box"><div wicket:id="tags"></div></div></form>
values:
  mode: edit
components:
  - id: box
    type: container
    enabledWhen: mode == "edit"
    children:
      - id: tags
        type: checkgroup
        choices: [a, b]
        selected: [b]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRenderPrintsMarkup(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "page.yaml", testDefinition)
	cfg := writeFile(t, dir, "formkit.yaml", "log:\n  level: error\n")

	out, err := runCLI(t, "render", def, "--config", cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<div wicket:id="tags"><input name="box:tags" type="checkbox" value="0"`) {
		t.Fatalf("expected first choice in output, got:\n%s", out)
	}
	if !strings.Contains(out, `type="checkbox" checked="checked" value="1"`) {
		t.Fatalf("expected selected choice in output, got:\n%s", out)
	}
	if strings.Contains(out, `disabled="disabled"`) {
		t.Fatalf("container should be enabled in edit mode, got:\n%s", out)
	}
}

func TestRenderSetOverridesValues(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "page.yaml", testDefinition)
	cfg := writeFile(t, dir, "formkit.yaml", "log:\n  level: error\n")

	out, err := runCLI(t, "render", def, "--config", cfg, "--set", "mode=view", "--format", "html")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `<input name="box:tags" type="checkbox" disabled="disabled" value="0"`) {
		t.Fatalf("expected disabled inputs, got:\n%s", out)
	}
	if strings.Contains(out, "wicket:id") {
		t.Fatalf("html renderer should strip component ids, got:\n%s", out)
	}
}

func TestRenderWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "page.yaml", testDefinition)
	cfg := writeFile(t, dir, "formkit.yaml", "log:\n  level: error\n")
	target := filepath.Join(dir, "page.html")

	out, err := runCLI(t, "render", def, "--config", cfg, "--output", target)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("expected nothing on stdout, got %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "<form><div wicket:id=\"box\">") {
		t.Fatalf("unexpected output file:\n%s", data)
	}
}

func TestRenderAppliesThemeManifest(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "page.yaml", testDefinition)
	writeFile(t, dir, "theme.yaml", `name: plain
tokens:
  choice.input.class: check
variants:
  dark:
    choice.label.class: label-dark
`)
	cfg := writeFile(t, dir, "formkit.yaml", `log:
  level: error
theme:
  manifest: theme.yaml
  variant: dark
`)

	out, err := runCLI(t, "render", def, "--config", cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `class="check"/><label for=`) {
		t.Fatalf("expected themed input class, got:\n%s", out)
	}
	if !strings.Contains(out, `class="label-dark">a</label>`) {
		t.Fatalf("expected themed label class, got:\n%s", out)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "page.yaml", testDefinition)
	cfg := writeFile(t, dir, "formkit.yaml", "log:\n  level: error\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown renderer", args: []string{"render", def, "--config", cfg, "--format", "pdf"}, want: `renderer "pdf" not found`},
		{name: "missing definition", args: []string{"render", filepath.Join(dir, "nope.yaml"), "--config", cfg}, want: "nope.yaml"},
		{name: "missing argument", args: []string{"render"}, want: "accepts 1 arg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCLI(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
