package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/internal/cli"
	"github.com/yaklabco/mdlive/pkg/reporter"
)

// testMarkdown has an open task on line 3, a done task on line 4 and
// emphasis on line 6.
const testMarkdown = "plain\n\n- [ ] todo\n- [x] done\n\nsome *em* here\n"

// writeFixture writes testMarkdown and a config file into a temp directory.
func writeFixture(t *testing.T, config string) (mdFile, cfgFile string) {
	t.Helper()

	dir := t.TempDir()
	mdFile = filepath.Join(dir, "test.md")
	require.NoError(t, os.WriteFile(mdFile, []byte(testMarkdown), 0644))

	cfgFile = filepath.Join(dir, ".mdlive.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(config), 0644))

	return mdFile, cfgFile
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

// renderJSON runs render with JSON output and decodes the result.
func renderJSON(t *testing.T, args ...string) reporter.JSONOutput {
	t.Helper()

	out, err := runCLI(t, append([]string{"render", "--format", "json", "--color", "never"}, args...)...)
	require.NoError(t, err)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output), out)
	return output
}

func decorationsOf(output reporter.JSONOutput, rule string) []reporter.JSONDecoration {
	var out []reporter.JSONDecoration
	for _, dec := range output.Decorations {
		if dec.Rule == rule {
			out = append(out, dec)
		}
	}
	return out
}

func TestIntegration_RenderJSON(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "flavor: gfm\n")

	output := renderJSON(t, mdFile, "--config", cfgFile)

	assert.Equal(t, mdFile, output.Path)

	boxes := decorationsOf(output, "checkbox")
	require.NotEmpty(t, boxes)

	first := boxes[0]
	assert.Equal(t, 9, first.From)
	assert.Equal(t, 12, first.To)
	assert.Equal(t, 3, first.Line)
	assert.Equal(t, 3, first.Column)
	assert.Equal(t, "replace", first.Kind)
	assert.Contains(t, first.Widget, "[ ]")

	var completed bool
	for _, dec := range boxes {
		if dec.Kind == "line" && dec.Class == "completed-item" {
			completed = true
			assert.Equal(t, 4, dec.Line)
		}
	}
	assert.True(t, completed, "expected a completed-item line decoration")

	assert.Equal(t, len(output.Decorations), output.Summary.Total)
}

func TestIntegration_CursorSuppressesNearbyDecorations(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "flavor: gfm\n")

	output := renderJSON(t, mdFile, "--config", cfgFile, "--line", "3")

	for _, dec := range decorationsOf(output, "checkbox") {
		assert.NotEqual(t, 3, dec.Line, "decoration on the cursor line should be hidden")
	}
}

func TestIntegration_VisibleLines(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "flavor: gfm\n")

	output := renderJSON(t, mdFile, "--config", cfgFile, "--lines", "1-3")

	boxes := decorationsOf(output, "checkbox")
	require.NotEmpty(t, boxes)
	for _, dec := range boxes {
		assert.LessOrEqual(t, dec.Line, 3)
	}
}

func TestIntegration_InvalidLines(t *testing.T) {
	t.Parallel()

	mdFile, cfgFile := writeFixture(t, "flavor: gfm\n")

	_, err := runCLI(t, "render", mdFile, "--config", cfgFile, "--lines", "5-2")
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrInvalidLineRange)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_MissingFile(t *testing.T) {
	t.Parallel()

	_, cfgFile := writeFixture(t, "flavor: gfm\n")

	_, err := runCLI(t, "render", filepath.Join(t.TempDir(), "missing.md"), "--config", cfgFile)
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestIntegration_DisableRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config string
		args   []string
	}{
		{
			name:   "disable flag by ID",
			config: "flavor: gfm\n",
			args:   []string{"--disable", "checkbox"},
		},
		{
			name:   "disable flag by alias",
			config: "flavor: gfm\n",
			args:   []string{"--disable", "tasks"},
		},
		{
			name:   "config file",
			config: "flavor: gfm\nrules:\n  checkbox:\n    enabled: false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mdFile, cfgFile := writeFixture(t, tt.config)

			output := renderJSON(t, append([]string{mdFile, "--config", cfgFile}, tt.args...)...)

			assert.Empty(t, decorationsOf(output, "checkbox"))
			for _, rule := range output.Rules {
				assert.NotEqual(t, "checkbox", rule.ID)
			}
		})
	}
}

func TestIntegration_LuaScript(t *testing.T) {
	t.Parallel()

	config := "flavor: gfm\nscripts:\n  - emphasis.lua\n"
	mdFile, cfgFile := writeFixture(t, config)

	script := `function decide(node)
	if node.kind == "Emphasis" then return { kind = "mark", class = "lua-em" } end
end`
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfgFile), "emphasis.lua"), []byte(script), 0644))

	output := renderJSON(t, mdFile, "--config", cfgFile)

	marks := decorationsOf(output, "emphasis")
	require.Len(t, marks, 1)
	assert.Equal(t, "mark", marks[0].Kind)
	assert.Equal(t, "lua-em", marks[0].Class)
	assert.Equal(t, 6, marks[0].Line)
}

func TestIntegration_TextAndSummaryFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantContains []string
	}{
		{
			name:         "text",
			args:         []string{"--format", "text"},
			wantContains: []string{"3:3", "(checkbox)", "- [ ] todo"},
		},
		{
			name:         "table",
			args:         []string{"--format", "table"},
			wantContains: []string{"LOC", "DETAIL", "checkbox"},
		},
		{
			name:         "summary",
			args:         []string{"--format", "summary"},
			wantContains: []string{"Summary", "Total decorations:", "checkbox"},
		},
		{
			name:         "compact summary",
			args:         []string{"--format", "summary", "--compact"},
			wantContains: []string{"decorations ("},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mdFile, cfgFile := writeFixture(t, "flavor: gfm\n")

			args := append([]string{"render", mdFile, "--config", cfgFile, "--color", "never"}, tt.args...)
			out, err := runCLI(t, args...)
			require.NoError(t, err)

			for _, want := range tt.wantContains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestIntegration_RulesCommandJSON(t *testing.T) {
	t.Parallel()

	_, cfgFile := writeFixture(t, "flavor: gfm\nrules:\n  styled-spans:\n    enabled: true\n")

	out, err := runCLI(t, "rules", "--format", "json", "--config", cfgFile)
	require.NoError(t, err)

	var infos []struct {
		ID      string `json:"id"`
		Scope   string `json:"scope"`
		Default bool   `json:"default"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &infos), out)

	byID := make(map[string]bool, len(infos))
	for _, info := range infos {
		byID[info.ID] = info.Enabled
		if info.ID == "image" {
			assert.Equal(t, "block", info.Scope)
		}
	}
	assert.True(t, byID["checkbox"])
	assert.True(t, byID["styled-spans"])
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		file         string
		wantContains []string
	}{
		{
			name:         "yaml",
			file:         "custom.yml",
			args:         []string{"--format", "yaml"},
			wantContains: []string{"flavor:"},
		},
		{
			name:         "toml full",
			file:         "custom.toml",
			args:         []string{"--format", "toml", "--full"},
			wantContains: []string{"flavor", "checkbox"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.file)

			_, err := runCLI(t, append([]string{"init", "--output", path}, tt.args...)...)
			require.NoError(t, err)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, string(content), want)
			}

			_, err = runCLI(t, append([]string{"init", "--output", path}, tt.args...)...)
			require.Error(t, err, "init should refuse to overwrite without --force")

			_, err = runCLI(t, append([]string{"init", "--output", path, "--force"}, tt.args...)...)
			require.NoError(t, err)
			assert.FileExists(t, path+".bak", "overwriting should keep a backup")
		})
	}
}

func TestIntegration_InitInvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "init", "--output", filepath.Join(t.TempDir(), "x.json"), "--format", "json")
	require.Error(t, err)
}
