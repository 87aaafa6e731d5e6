package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/filters/builtin"
)

func execute(t *testing.T, env *Env, stdin string, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "sitefilter", SilenceUsage: true, SilenceErrors: true}
	InitAll(root, env)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func newEnv(t *testing.T) *Env {
	t.Helper()
	return &Env{
		Registry:   builtin.NewRegistry(),
		ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newProject writes a config file and a tiny content tree.
func newProject(t *testing.T) (*Env, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "content", "about.md"), "---\ntitle: About\n---\n# About\n\nHello **there**.\n")
	cfgFile := filepath.Join(root, "sitefilter.yaml")
	writeFile(t, cfgFile, `content_dir: `+filepath.Join(root, "content")+`
layouts_dir: `+filepath.Join(root, "layouts")+`
output_dir: `+filepath.Join(root, "output")+`
site:
  name: Example
rules:
  - pattern: "**"
    filters:
      - name: bluecloth
`)
	return &Env{Registry: builtin.NewRegistry(), ConfigFile: cfgFile}, root
}

func TestFilterCommand_Stdin(t *testing.T) {
	out, err := execute(t, newEnv(t), "> Quote", "filter", "bluecloth")
	require.NoError(t, err)
	assert.Equal(t, "<blockquote>\n    <p>Quote</p>\n</blockquote>\n", out)
}

func TestFilterCommand_FileWithParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	writeFile(t, path, "---\ntitle: Page\n---\n<div>  a  </div>\n")

	out, err := execute(t, newEnv(t), "", "filter", "minify", path)
	require.NoError(t, err)
	assert.Equal(t, "<div> a </div>\n", out)

	out, err = execute(t, newEnv(t), "{{ .params.greeting }} {{ .item.Identifier }}",
		"filter", "template", "-p", "greeting=hi", "--identifier", "docs/page")
	require.NoError(t, err)
	assert.Equal(t, "hi /docs/page/\n", out)
}

func TestFilterCommand_UnknownFilter(t *testing.T) {
	_, err := execute(t, newEnv(t), "x", "filter", "nope")
	assert.ErrorIs(t, err, filters.ErrFilterNotFound)
}

func TestFilterCommand_ErrorCarriesLabel(t *testing.T) {
	_, err := execute(t, newEnv(t), "x", "filter", "sanitize", "-p", "policy=bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, filters.ErrInvalidParam)
	assert.ErrorIs(t, err, &filters.FilterError{Filter: "sanitize", Label: "item /stdin/ (rep default)"})
}

func TestFilterCommand_UsesSiteConfig(t *testing.T) {
	env, _ := newProject(t)
	out, err := execute(t, env, `{{ .config.name }}`, "filter", "erb")
	require.NoError(t, err)
	assert.Equal(t, "Example\n", out)
}

func TestFiltersCommand(t *testing.T) {
	out, err := execute(t, newEnv(t), "", "filters")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, builtin.NewRegistry().Identifiers(), lines)
	assert.Contains(t, lines, "bluecloth")
}

func TestCompileCommand(t *testing.T) {
	env, root := newProject(t)
	out, err := execute(t, env, "", "compile")
	require.NoError(t, err)
	assert.Equal(t, "compiled 1 item reps, skipped 0 items\n", out)

	data, err := os.ReadFile(filepath.Join(root, "output", "about", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<strong>there</strong>")
}

func TestCompileCommand_MissingConfig(t *testing.T) {
	_, err := execute(t, newEnv(t), "", "compile")
	assert.Error(t, err)
}

func TestPreviewCommand(t *testing.T) {
	env, _ := newProject(t)
	out, err := execute(t, env, "", "preview", "about", "--style", "notty", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "About")
	assert.Contains(t, out, "there")

	_, err = execute(t, env, "", "preview", "/missing/", "--style", "notty")
	assert.EqualError(t, err, "no item with identifier /missing/")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, newEnv(t), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "sitefilter "+Version+"\n", out)
}
