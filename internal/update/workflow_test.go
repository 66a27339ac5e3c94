package update

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/srcup/srcup/internal/config"
	"github.com/srcup/srcup/internal/status"
	"github.com/srcup/srcup/internal/surface"
)

func testConfig(sourceDir string) config.Config {
	cfg := config.Default()
	cfg.SourceDir = sourceDir
	cfg.Remote = "https://example.com/upstream.git"
	return cfg
}

func testCache() *status.Cache {
	return status.NewCache(func() status.Pending { return status.Ahead(5) })
}

func TestPipelineClonesWhenDirectoryAbsent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	w := New(testConfig(dir), testCache())

	spec, tag, err := w.BuildPipeline(Options{Branch: "master", BuildType: "Release"})
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if tag != TagCloning {
		t.Fatalf("tag = %q, want %q", tag, TagCloning)
	}

	cmd := spec.Command()
	if !strings.Contains(spec[0].Command, "git clone https://example.com/upstream.git "+dir) {
		t.Fatalf("stage 1 = %q, want a clone targeting %s", spec[0].Command, dir)
	}
	for _, want := range []string{
		"git clone",
		"cd " + dir,
		"git fetch origin",
		"git checkout master",
		"git pull",
		"make CMAKE_BUILD_TYPE=Release",
		"sudo make install",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("pipeline missing %q:\n%s", want, cmd)
		}
	}

	// Stages appear in order.
	prev := -1
	for _, want := range []string{"git clone", "git fetch origin", "git checkout", "git pull", "make CMAKE_BUILD_TYPE", "sudo make install"} {
		idx := strings.Index(cmd, want)
		if idx < prev {
			t.Fatalf("%q out of order in %q", want, cmd)
		}
		prev = idx
	}
}

func TestPipelineNeverClonesWhenDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	w := New(testConfig(dir), testCache())

	spec, tag, err := w.BuildPipeline(Options{Branch: "release-0.10"})
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if tag != TagUpdating {
		t.Fatalf("tag = %q, want %q", tag, TagUpdating)
	}

	cmd := spec.Command()
	if strings.Contains(cmd, "git clone") {
		t.Fatalf("pipeline for existing checkout contains a clone:\n%s", cmd)
	}
	if !strings.HasPrefix(spec[0].Command, "cd ") {
		t.Fatalf("stage 1 = %q, want a bare cd", spec[0].Command)
	}
	if !strings.Contains(cmd, "git checkout release-0.10") {
		t.Fatalf("pipeline missing branch checkout:\n%s", cmd)
	}
}

func TestResolveFallsBackToConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Branch = "nightly"
	cfg.BuildType = "Debug"
	w := New(cfg, testCache())

	// Explicit empty strings mean "not provided".
	r, err := w.resolve(Options{SourceDir: "", Branch: "", BuildType: ""})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.sourceDir != dir || r.branch != "nightly" || r.buildType != "Debug" {
		t.Fatalf("resolved = %+v", r)
	}

	r, err = w.resolve(Options{Branch: "master"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.branch != "master" || r.buildType != "Debug" {
		t.Fatalf("resolved = %+v", r)
	}
}

func TestResolveRequiresSourceDir(t *testing.T) {
	cfg := config.Default()
	w := New(cfg, testCache())
	if _, err := w.resolve(Options{}); err == nil {
		t.Fatal("expected error without a source directory")
	}
}

func TestCloneRequiresRemote(t *testing.T) {
	cfg := config.Default()
	cfg.SourceDir = filepath.Join(t.TempDir(), "missing")
	w := New(cfg, testCache())
	if _, _, err := w.BuildPipeline(Options{}); err == nil {
		t.Fatal("expected error cloning without a remote")
	}
}

func TestUpdateResetsCacheOnSuccess(t *testing.T) {
	cache := testCache()
	cache.Refresh()
	if cache.Pending().Text() != "5" {
		t.Fatalf("precondition: pending = %q", cache.Pending().Text())
	}

	w := New(testConfig(t.TempDir()), cache)
	w.runner = func(opts surface.RunOptions) (*surface.RunResult, error) {
		res := surface.RunResult{ExitCode: 0, Lines: []string{"==> installing", "ok"}}
		if opts.OnClose != nil {
			opts.OnClose(res)
		}
		return &res, nil
	}

	if err := w.Update(Options{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if w.Phase() != PhaseCompleted {
		t.Fatalf("phase = %v, want completed", w.Phase())
	}
	if cache.Pending().Text() != "0" {
		t.Fatalf("pending = %q, want 0 after successful update", cache.Pending().Text())
	}
}

func TestUpdateFailureKeepsCache(t *testing.T) {
	cache := testCache()
	cache.Refresh()

	w := New(testConfig(t.TempDir()), cache)
	w.runner = func(opts surface.RunOptions) (*surface.RunResult, error) {
		// Failed runs never invoke OnClose.
		return &surface.RunResult{ExitCode: 2, Lines: []string{"==> building", "error"}}, nil
	}

	if err := w.Update(Options{}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if w.Phase() != PhaseFailed {
		t.Fatalf("phase = %v, want failed", w.Phase())
	}
	if cache.Pending().Text() != "5" {
		t.Fatalf("pending = %q, failure must not reset the count", cache.Pending().Text())
	}
}

func TestShowChangesChainsIntoUpdate(t *testing.T) {
	calls := []string{}
	w := New(testConfig(t.TempDir()), testCache())
	w.runner = func(opts surface.RunOptions) (*surface.RunResult, error) {
		calls = append(calls, opts.Tag)
		if opts.Tag == TagShowingChange {
			if !opts.ChainToUpdate {
				t.Fatal("showing-changes run must offer the update chain")
			}
			return &surface.RunResult{ExitCode: 0, ChainAccepted: true}, nil
		}
		return &surface.RunResult{ExitCode: 0}, nil
	}

	if err := w.ShowChanges(Options{}); err != nil {
		t.Fatalf("ShowChanges: %v", err)
	}
	if len(calls) != 2 || calls[0] != TagShowingChange || calls[1] != TagUpdating {
		t.Fatalf("runner calls = %v", calls)
	}
}

func TestShowChangesDeclinedDoesNotUpdate(t *testing.T) {
	calls := 0
	w := New(testConfig(t.TempDir()), testCache())
	w.runner = func(opts surface.RunOptions) (*surface.RunResult, error) {
		calls++
		return &surface.RunResult{ExitCode: 0, ChainAccepted: false}, nil
	}

	if err := w.ShowChanges(Options{}); err != nil {
		t.Fatalf("ShowChanges: %v", err)
	}
	if calls != 1 {
		t.Fatalf("runner calls = %d, want 1", calls)
	}
}

func TestLastStage(t *testing.T) {
	res := &surface.RunResult{Lines: []string{
		"==> preparing",
		"==> syncing",
		"Already up to date.",
		"==> building",
		"make: *** error",
	}}
	if got := lastStage(res); got != "building" {
		t.Fatalf("lastStage = %q, want building", got)
	}
}
