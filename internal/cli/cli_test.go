package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/ringplace/pkg/errors"
)

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	for _, env := range []string{"XDG_CONFIG_HOME", "XDG_CACHE_HOME", "XDG_DATA_HOME"} {
		dir := filepath.Join(base, strings.ToLower(env))
		t.Setenv(env, dir)
	}
	return base
}

// run executes the root command and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out, errOut bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

const testConfig = `
[defaults]
count = 6
min = 4.0
max = 5.0

[presets.gazebo]
count = 8
min = 3.0
max = 3.5
offset = [120, 80]

[presets.posts]
count = 4
min = 10.0
max = 10.0
distinct = true
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func csvRows(out string) []string {
	return strings.Split(strings.TrimSpace(out), "\n")
}

func TestPlaceCSVToStdout(t *testing.T) {
	isolate(t)
	out := mustRun(t, "place", "-n", "4", "--min", "10", "--max", "10", "--offset", "100,50", "-f", "csv")

	want := "slot,x,y\n0,110,50\n1,100,60\n2,90,50\n3,100,40\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestPlaceTable(t *testing.T) {
	isolate(t)
	out := mustRun(t, "place", "-n", "12", "--min", "10", "--max", "12")

	for _, want := range []string{"Slot", "Target", "12 points", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "place", "-n", "12", "--min", "10", "--max", "12")
	if !strings.Contains(out, "cached") {
		t.Errorf("second run not served from cache:\n%s", out)
	}
}

func TestPlaceTableMarksDuplicates(t *testing.T) {
	isolate(t)
	out := mustRun(t, "place", "-n", "24", "--min", "5", "--max", "5", "--no-cache")

	if !strings.Contains(out, "= slot 0") || !strings.Contains(out, "12 duplicates") {
		t.Errorf("duplicates not marked:\n%s", out)
	}
}

func TestPlaceWritesFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := filepath.Join(dir, "out", "ring")

	out := mustRun(t, "place", "-n", "12", "--min", "10", "--max", "12", "-f", "svg,csv,dot", "-o", base+".svg")
	for _, ext := range []string{"svg", "csv", "dot"} {
		path := base + "." + ext
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing %s: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
		if !strings.Contains(out, path) {
			t.Errorf("output does not list %s", path)
		}
	}
}

func TestPlaceSingleOutputFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "points.txt")
	mustRun(t, "place", "-n", "4", "--min", "10", "--max", "10", "-f", "csv", "-o", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(csvRows(string(data))) != 5 {
		t.Errorf("file = %q", data)
	}
}

func TestPlaceErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"zero count", []string{"place", "-n", "0", "--min", "1", "--max", "2"}, errs.ErrCodeInvalidArgument},
		{"inverted band", []string{"place", "-n", "3", "--min", "5", "--max", "4"}, errs.ErrCodeInvalidArgument},
		{"bad offset", []string{"place", "--offset", "1;2"}, errs.ErrCodeInvalidArgument},
		{"bad format", []string{"place", "-f", "gif"}, errs.ErrCodeInvalidFormat},
		{"binary to stdout", []string{"place", "-f", "png"}, errs.ErrCodeInvalidArgument},
		{"several to stdout", []string{"place", "-f", "csv,json"}, errs.ErrCodeInvalidArgument},
		{"unknown preset", []string{"place", "--preset", "nope"}, errs.ErrCodePresetNotFound},
		{"bad plan name", []string{"place", "--save", "../x"}, errs.ErrCodeInvalidName},
		{"unsatisfiable", []string{"place", "-n", "3", "--min", "0.2", "--max", "0.9"}, errs.ErrCodeUnsatisfiable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := run(t, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPlaceConfigAndPresets(t *testing.T) {
	isolate(t)
	cfg := writeTestConfig(t)

	out := mustRun(t, "--config", cfg, "place", "-f", "csv")
	if rows := csvRows(out); len(rows) != 7 {
		t.Errorf("config default count: got %d rows, want 7", len(rows))
	}

	out = mustRun(t, "--config", cfg, "place", "--preset", "gazebo", "-f", "csv")
	rows := csvRows(out)
	if len(rows) != 9 {
		t.Fatalf("preset count: got %d rows, want 9", len(rows))
	}
	// Slot 0 of a 3..3.5 band aims at (3, 0), shifted by the preset offset.
	if rows[1] != "0,123,80" {
		t.Errorf("first row = %q, want 0,123,80", rows[1])
	}

	out = mustRun(t, "--config", cfg, "place", "--preset", "gazebo", "-n", "3", "--offset", "0,0", "-f", "csv")
	if rows := csvRows(out); len(rows) != 4 || rows[1] != "0,3,0" {
		t.Errorf("flags over preset: %q", rows)
	}

	out = mustRun(t, "--config", cfg, "presets")
	for _, want := range []string{"gazebo", "posts", "120,80"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output does not contain %q:\n%s", want, out)
		}
	}
}

func TestPresetsEmpty(t *testing.T) {
	isolate(t)
	out := mustRun(t, "presets")
	if !strings.Contains(out, "No presets configured") {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "--config", path, "place")
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestPlans(t *testing.T) {
	isolate(t)

	out := mustRun(t, "place", "-n", "8", "--min", "3", "--max", "3.5", "--offset", "10,10", "--save", "gazebo")
	if !strings.Contains(out, "Saved plan gazebo") {
		t.Fatalf("save output:\n%s", out)
	}

	out = mustRun(t, "plans", "list")
	if !strings.Contains(out, "gazebo") || !strings.Contains(out, "(10, 10)") {
		t.Errorf("list output:\n%s", out)
	}

	out = mustRun(t, "plans", "show", "gazebo")
	for _, want := range []string{"gazebo", "3–3.5", "index"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output does not contain %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "plans", "show", "gazebo", "--json")
	if !strings.Contains(out, `"name": "gazebo"`) {
		t.Errorf("show --json output:\n%s", out)
	}

	out = mustRun(t, "plans", "delete", "gazebo")
	if !strings.Contains(out, "Deleted plan gazebo") {
		t.Errorf("delete output:\n%s", out)
	}

	_, err := run(t, "plans", "show", "gazebo")
	if !errs.Is(err, errs.ErrCodePlanNotFound) {
		t.Errorf("show after delete: err = %v", err)
	}

	out = mustRun(t, "plans", "list")
	if !strings.Contains(out, "No saved plans") {
		t.Errorf("empty list output:\n%s", out)
	}
}

func TestSaveWithFormatWritesNamedFiles(t *testing.T) {
	isolate(t)
	wd := t.TempDir()
	t.Chdir(wd)

	mustRun(t, "place", "-n", "4", "--min", "10", "--max", "10", "-f", "csv", "--save", "posts")
	if _, err := os.Stat(filepath.Join(wd, "posts.csv")); err != nil {
		t.Errorf("posts.csv not written: %v", err)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out := mustRun(t, "completion", shell)
		if !strings.Contains(out, "ringplace") {
			t.Errorf("%s completion does not mention ringplace", shell)
		}
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		output  string
		formats []string
		want    map[string]string
	}{
		{"ring.svg", []string{"svg"}, map[string]string{"svg": "ring.svg"}},
		{"ring.txt", []string{"csv"}, map[string]string{"csv": "ring.txt"}},
		{"ring", []string{"csv"}, map[string]string{"csv": "ring.csv"}},
		{"ring.svg", []string{"svg", "csv"}, map[string]string{"svg": "ring.svg", "csv": "ring.csv"}},
		{"out/ring", []string{"dot", "png"}, map[string]string{"dot": "out/ring.dot", "png": "out/ring.png"}},
		{"v1.2", []string{"json", "csv"}, map[string]string{"json": "v1.2.json", "csv": "v1.2.csv"}},
	}
	for _, tt := range tests {
		got := outputPaths(tt.output, tt.formats)
		if len(got) != len(tt.want) {
			t.Errorf("outputPaths(%q, %v) = %v, want %v", tt.output, tt.formats, got, tt.want)
			continue
		}
		for f, p := range tt.want {
			if got[f] != p {
				t.Errorf("outputPaths(%q, %v)[%s] = %q, want %q", tt.output, tt.formats, f, got[f], p)
			}
		}
	}
}
