package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	exitCode = 0
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeShader(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExplain(t *testing.T) {
	out, err := execute(t, "explain", "syn2001")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasPrefix(out, "SYN2001: ") {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := execute(t, "explain", "XYZ9"); err == nil {
		t.Fatal("expected error for unknown code")
	}
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "good.wgsl", "fn f() -> i32 { return 1; }\n")
	writeShader(t, dir, "bad.wgsl", "fn g() -> i32 { return 1 }\n")

	out, err := execute(t, "--color=off", "check", "--format=json", "--no-cache", "--ui=off", "--watch=false", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if exitCode != 1 {
		t.Fatalf("exitCode = %d, want 1", exitCode)
	}
	var payload struct {
		Diagnostics []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if len(payload.Diagnostics) == 0 || !strings.HasPrefix(payload.Diagnostics[0].Code, "SYN") {
		t.Fatalf("expected a syntax diagnostic, got %+v", payload.Diagnostics)
	}
}

func TestCheckCommandCleanFile(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "good.wgsl", "fn f() -> i32 { return 1; }\n")

	out, err := execute(t, "--color=off", "--quiet", "check", "--format=short", "--no-cache", "--ui=off", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if exitCode != 0 || out != "" {
		t.Fatalf("exitCode=%d out=%q", exitCode, out)
	}
}

func TestCheckCommandConfigErrors(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "good.wgsl", "fn f() -> i32 { return 1; }\n")
	cfg := filepath.Join(dir, "wgslfront.toml")
	if err := os.WriteFile(cfg, []byte("[front]\nextensions = [\"f17\"]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--color=off", "--quiet", "check", "--format=short", "--no-cache", "--ui=off", "--config", cfg, dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "wgslfront.toml:2:") || !strings.Contains(out, "CFG5002") {
		t.Fatalf("expected config diagnostic, got %q", out)
	}
}

func TestCheckCommandFix(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "fixme.wgsl", "let a = 1;\nfn f() -> i32 { return a; }\n")

	_, err := execute(t, "--color=off", "--quiet", "check", "--format=short", "--no-cache", "--ui=off", "--config=", "--fix", path)
	if err != nil {
		t.Fatalf("check --fix: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "const a = 1;\nfn f() -> i32 { return a; }\n"; string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if exitCode != 0 {
		t.Fatalf("exitCode = %d after fix", exitCode)
	}
	if err := checkCmd.Flags().Set("fix", "false"); err != nil {
		t.Fatal(err)
	}
}

func TestCheckRejectsUnknownEnable(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "good.wgsl", "fn f() -> i32 { return 1; }\n")
	if _, err := execute(t, "check", "--config=", "--no-cache", "--ui=off", "--enable", "nope", path); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestParseUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiAuto, false},
		{"ON", uiOn, false},
		{" off ", uiOff, false},
		{"maybe", uiAuto, true},
	}
	for _, tt := range tests {
		got, err := parseUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseUIMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestUIModeProgress(t *testing.T) {
	tests := []struct {
		mode   uiMode
		format string
		tty    bool
		want   bool
	}{
		{uiAuto, "pretty", true, true},
		{uiAuto, "pretty", false, false},
		{uiAuto, "short", true, false},
		{uiAuto, "json", true, false},
		{uiOn, "sarif", false, true},
		{uiOff, "pretty", true, false},
	}
	for _, tt := range tests {
		if got := tt.mode.progress(tt.format, tt.tty); got != tt.want {
			t.Errorf("%v.progress(%q, tty=%v) = %v, want %v", tt.mode, tt.format, tt.tty, got, tt.want)
		}
	}
}

func TestWatchHits(t *testing.T) {
	target := "/p/a.wgsl"
	if !watchHits([]string{"/p/b.wgsl", target}, target) {
		t.Error("target change must hit")
	}
	if !watchHits([]string{"/p/wgslfront.toml"}, target) {
		t.Error("config change must hit")
	}
	if watchHits([]string{"/p/b.wgsl"}, target) {
		t.Error("unrelated file must not hit")
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3"}
	if err := renderVersionJSON(&buf, info, versionOptions{showHash: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "wgslfront" || payload.Version != "1.2.3" || payload.GitCommit != "unknown" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
