// Package update builds and runs the clone-or-fetch → checkout+pull →
// build → install pipeline for a source checkout.
package update

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/srcup/srcup/internal/config"
	"github.com/srcup/srcup/internal/pipeline"
	"github.com/srcup/srcup/internal/status"
	"github.com/srcup/srcup/internal/surface"
)

// Stage labels, also used as phase banners in the pipeline output.
const (
	labelCloning    = "cloning"
	labelPreparing  = "preparing"
	labelSyncing    = "syncing"
	labelBuilding   = "building"
	labelInstalling = "installing"
)

// Viewport classification tags consumed by external status-line logic.
const (
	TagUpdating      = "updating"
	TagCloning       = "cloning"
	TagShowingChange = "showing-changes"
	TagRemoving      = "removing"
)

// Phase tracks a single workflow invocation. There is no rollback: a
// failure leaves prior stage effects in place.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseDirectoryCheck
	PhaseSyncing
	PhaseBuilding
	PhaseInstalling
	PhaseCompleted
	PhaseFailed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseResolving:
		return "resolving"
	case PhaseDirectoryCheck:
		return "directory-check"
	case PhaseSyncing:
		return labelSyncing
	case PhaseBuilding:
		return labelBuilding
	case PhaseInstalling:
		return labelInstalling
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Options overrides the configured update parameters. An explicitly
// empty string means "not provided" and falls back to the config value.
type Options struct {
	SourceDir string
	BuildType string
	Branch    string
}

// runnerFunc matches surface.Run; swapped out in tests.
type runnerFunc func(surface.RunOptions) (*surface.RunResult, error)

// Workflow composes the pipeline builder with the command runner and
// the status cache.
type Workflow struct {
	cfg    config.Config
	cache  *status.Cache
	runner runnerFunc
	phase  Phase
}

// New creates a workflow bound to the merged configuration.
func New(cfg config.Config, cache *status.Cache) *Workflow {
	return &Workflow{
		cfg:    cfg,
		cache:  cache,
		runner: surface.Run,
		phase:  PhaseIdle,
	}
}

// Phase returns the phase reached by the most recent invocation.
func (w *Workflow) Phase() Phase {
	return w.phase
}

type resolved struct {
	sourceDir string
	buildType string
	branch    string
}

func (w *Workflow) resolve(opts Options) (resolved, error) {
	r := resolved{
		sourceDir: opts.SourceDir,
		buildType: opts.BuildType,
		branch:    opts.Branch,
	}
	if r.sourceDir == "" {
		r.sourceDir = w.cfg.SourceDir
	}
	if r.buildType == "" {
		r.buildType = w.cfg.BuildType
	}
	if r.branch == "" {
		r.branch = w.cfg.Branch
	}
	if r.sourceDir == "" {
		return r, errors.New("no source directory configured (set source_dir or pass --source-dir)")
	}
	return r, nil
}

// BuildPipeline resolves the options and assembles the staged command
// line. The returned tag is "cloning" when the checkout does not exist
// yet and stage 1 has to clone it, "updating" otherwise.
func (w *Workflow) BuildPipeline(opts Options) (pipeline.Spec, string, error) {
	r, err := w.resolve(opts)
	if err != nil {
		return nil, "", err
	}

	tag := TagUpdating
	var spec pipeline.Spec

	if _, err := os.Stat(r.sourceDir); err != nil {
		if w.cfg.Remote == "" {
			return nil, "", fmt.Errorf("%s does not exist and no remote is configured to clone from", r.sourceDir)
		}
		tag = TagCloning
		spec = append(spec, pipeline.Stage{
			Label: labelCloning,
			Command: fmt.Sprintf("git clone %s %s && cd %s",
				pipeline.ShellQuote(w.cfg.Remote),
				pipeline.ShellQuote(r.sourceDir),
				pipeline.ShellQuote(r.sourceDir)),
		})
	} else {
		spec = append(spec, pipeline.Stage{
			Label:   labelPreparing,
			Command: "cd " + pipeline.ShellQuote(r.sourceDir),
		})
	}

	spec = append(spec,
		pipeline.Stage{
			Label: labelSyncing,
			Command: fmt.Sprintf("git fetch origin && git checkout %s && git pull",
				pipeline.ShellQuote(r.branch)),
		},
		pipeline.Stage{
			Label:   labelBuilding,
			Command: "make CMAKE_BUILD_TYPE=" + pipeline.ShellQuote(r.buildType),
		},
		pipeline.Stage{
			Label:   labelInstalling,
			Command: "sudo make install",
		},
	)

	return spec, tag, nil
}

// Update runs the full update pipeline in a modal surface. A pipeline
// stage failure is surfaced inside the modal and is not an error here;
// only resolution and spawn failures are.
func (w *Workflow) Update(opts Options) error {
	w.phase = PhaseResolving
	r, err := w.resolve(opts)
	if err != nil {
		w.phase = PhaseFailed
		return err
	}

	fmt.Fprintf(os.Stderr, "updating %s (branch %s, build %s)\n", r.sourceDir, r.branch, r.buildType)

	w.phase = PhaseDirectoryCheck
	spec, tag, err := w.BuildPipeline(opts)
	if err != nil {
		w.phase = PhaseFailed
		return err
	}

	result, err := w.runner(surface.RunOptions{
		Command: spec.Command(),
		Tag:     tag,
		Tags:    w.cache,
		OnClose: func(res surface.RunResult) {
			if res.ExitCode == 0 {
				w.cache.MarkUpToDate()
			}
		},
	})
	if err != nil {
		w.phase = PhaseFailed
		return err
	}

	if result.ExitCode == 0 {
		w.phase = PhaseCompleted
		return nil
	}
	w.phase = PhaseFailed
	fmt.Fprintf(os.Stderr, "update failed during %s\n", lastStage(result))
	return nil
}

// ShowChanges opens a modal listing commits on origin/<branch> that the
// checkout lacks, then offers to chain into the update workflow.
func (w *Workflow) ShowChanges(opts Options) error {
	r, err := w.resolve(opts)
	if err != nil {
		return err
	}

	gitDir := pipeline.ShellJoin([]string{"git", "-C", r.sourceDir})
	spec := pipeline.Spec{
		{
			Label: "pending changes",
			Command: fmt.Sprintf("%s fetch origin && %s log --oneline HEAD..origin/%s",
				gitDir, gitDir, pipeline.ShellQuote(r.branch)),
		},
	}

	result, err := w.runner(surface.RunOptions{
		Command:       spec.Command(),
		Tag:           TagShowingChange,
		Tags:          w.cache,
		ChainToUpdate: true,
	})
	if err != nil {
		return err
	}
	if result.ChainAccepted {
		return w.Update(Options{})
	}
	return nil
}

// Remove deletes the source checkout in a modal surface. The caller is
// responsible for confirming first.
func (w *Workflow) Remove(opts Options) error {
	r, err := w.resolve(opts)
	if err != nil {
		return err
	}

	spec := pipeline.Spec{
		{
			Label:   TagRemoving,
			Command: pipeline.ShellJoin([]string{"rm", "-rf", r.sourceDir}),
		},
	}

	_, err = w.runner(surface.RunOptions{
		Command:   spec.Command(),
		Tag:       TagRemoving,
		Tags:      w.cache,
		AutoClose: true,
	})
	return err
}

// lastStage returns the label of the furthest stage banner seen in the
// captured output, for failure reporting.
func lastStage(res *surface.RunResult) string {
	stage := labelPreparing
	for _, line := range res.Lines {
		if rest, ok := strings.CutPrefix(line, "==> "); ok {
			rest = strings.TrimSpace(rest)
			if rest != "" {
				stage = rest
			}
		}
	}
	return stage
}
