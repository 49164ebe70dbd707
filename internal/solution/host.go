package solution

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"grafo/internal/grafoerrors"
	"grafo/internal/logging"
	"grafo/internal/semantic"
)

// Binder produces a Compilation for one project, given the whole-solution
// build result already captured by the host. The two implementations
// differ in how they establish each project's reference set; neither
// performs real semantic binding (see the design notes on the
// CompilationHost contract), so both ultimately just gather source files
// and the diagnostics scoped to them.
type Binder interface {
	Bind(ctx context.Context, project Project, buildResult BuildResult) (Compilation, error)
}

// WorkspaceBinder trusts the host build system's own reference resolution:
// it does not parse .csproj item groups itself, matching the
// highest-fidelity strategy's premise that the host already did that work.
type WorkspaceBinder struct{}

func (WorkspaceBinder) Bind(_ context.Context, project Project, buildResult BuildResult) (Compilation, error) {
	return bindFromFiles(project, buildResult)
}

// ManualBinder additionally parses each project's .csproj for its
// reference lists, since it cannot rely on a host workspace model.
type ManualBinder struct{}

func (ManualBinder) Bind(_ context.Context, project Project, buildResult BuildResult) (Compilation, error) {
	if _, err := ReadProjectMetadata(project); err != nil {
		return Compilation{}, fmt.Errorf("reading project metadata: %w", err)
	}
	return bindFromFiles(project, buildResult)
}

func bindFromFiles(project Project, buildResult BuildResult) (Compilation, error) {
	paths, err := SourceFiles(project)
	if err != nil {
		return Compilation{}, err
	}

	files := make([]semantic.ParsedFile, 0, len(paths))
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			continue // unreadable file: skip, not fatal to the whole project
		}
		files = append(files, semantic.ParsedFile{
			Path:    path,
			Project: project.Name,
			Source:  source,
		})
	}

	var diagnostics []Diagnostic
	for _, d := range buildResult.Diagnostics {
		if strings.HasPrefix(filepath.Clean(d.File), filepath.Clean(project.Dir)) {
			diagnostics = append(diagnostics, d)
		}
	}

	return Compilation{Project: project, Files: files, Diagnostics: diagnostics}, nil
}

// HostConfig governs CompilationHost's error-handling policy.
type HostConfig struct {
	AllowCompilationErrors bool
	BinderStrategy         string // "workspace" or "manual"
}

// Host is the CompilationHost (C1).
type Host struct {
	config HostConfig
	filter *Filter
	logger *logging.Logger
	sink   ProgressSink
}

// NewHost constructs a Host with the given configuration, project filter,
// logger, and optional progress sink.
func NewHost(config HostConfig, filter *Filter, logger *logging.Logger, sink ProgressSink) *Host {
	return &Host{config: config, filter: filter, logger: logger, sink: sink}
}

func (h *Host) binder() Binder {
	if h.config.BinderStrategy == "manual" {
		return ManualBinder{}
	}
	return WorkspaceBinder{}
}

// Compile runs the full CompilationHost pipeline against a solution file:
// parse, filter, build, and bind each surviving project in solution order.
func (h *Host) Compile(ctx context.Context, solutionPath string) ([]Compilation, error) {
	projects, err := ParseSolutionFile(solutionPath)
	if err != nil {
		return nil, grafoerrors.New(grafoerrors.BindingFailure, "unable to parse solution file", err).
			WithDetails(map[string]any{"solutionPath": solutionPath})
	}

	projects = h.filter.Apply(projects)

	buildResult, err := RunHostBuild(ctx, solutionPath)
	if err != nil {
		return nil, grafoerrors.NewBindingFailure(filepath.Base(solutionPath), err)
	}
	if h.logger != nil && buildResult.ExitCode != 0 {
		h.logger.Warn("host build exited non-zero; continuing in best-effort mode", map[string]interface{}{
			"exitCode": buildResult.ExitCode,
		})
	}

	binder := h.binder()
	compilations := make([]Compilation, 0, len(projects))
	for _, project := range projects {
		h.sink.notify("compiling", project.Name)

		comp, err := binder.Bind(ctx, project, buildResult)
		if err != nil {
			return nil, grafoerrors.NewBindingFailure(project.Name, err)
		}

		if errCount := comp.ErrorCount(); errCount > 0 {
			if h.config.AllowCompilationErrors {
				if h.logger != nil {
					h.logger.Warn("project has compilation errors; continuing best-effort", map[string]interface{}{
						"project":    project.Name,
						"errorCount": errCount,
						"sample":     comp.ErrorMessages(10),
					})
				}
			} else {
				return nil, grafoerrors.NewCompilationError(project.Name, errCount, comp.ErrorMessages(20))
			}
		}

		compilations = append(compilations, comp)
		h.sink.notify("compiled", project.Name)
	}

	return compilations, nil
}
