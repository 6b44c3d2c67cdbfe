package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/spf13/cobra"

	"lowc/internal/driver"
	"lowc/internal/project"
	"lowc/internal/version"
)

const noInputsMessage = "no input files: pass .last/.json files or directories, or add [build].inputs to lowc.toml"

// inputExts are the AST encodings lowc reads.
var inputExts = []string{".last", ".json"}

type buildSettings struct {
	dir      string
	manifest *project.Manifest
	args     []string
	files    []string
	baseDir  string
	outDir   string
	jobs     int
	cache    bool
	werror   bool
	compile  driver.Options
	trace    project.TraceConfig
}

func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("out", "o", "", "output directory (default: [build].out_dir, or stdout without lowc.toml)")
	f.String("emit", project.EmitIR, "what to write (ir|ast)")
	f.Bool("fold", true, "fold constants before lowering")
	f.Bool("simplify", true, "forward stores and simplify the CFG after lowering")
	f.IntP("jobs", "j", 0, "files compiled at once, and functions lowered at once per file (0 = one per CPU)")
	f.Bool("cache", true, "reuse rendered output from the disk cache")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("werror", false, "treat warnings as errors")
}

// resolveBuildSettings merges lowc.toml with flags; flags win when set.
func resolveBuildSettings(cmd *cobra.Command, args []string) (*buildSettings, error) {
	flags := cmd.Flags()
	dir, err := flags.GetString("dir")
	if err != nil {
		return nil, err
	}
	s := &buildSettings{dir: dir, args: args, baseDir: dir}

	cfg := project.Default()
	manifest, ok, err := project.Load(dir)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := manifest.Config.CheckRequires(version.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", manifest.Path, err)
		}
		cfg = manifest.Config
		s.manifest = manifest
		s.baseDir = manifest.Root
		s.outDir = manifest.OutDir()
	}

	if flags.Changed("fold") {
		cfg.Build.Fold, _ = flags.GetBool("fold")
	}
	if flags.Changed("simplify") {
		cfg.Build.Simplify, _ = flags.GetBool("simplify")
	}
	if flags.Changed("jobs") {
		cfg.Build.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("emit") {
		cfg.Build.Emit, _ = flags.GetString("emit")
	}
	if flags.Changed("werror") {
		cfg.Build.Werror, _ = flags.GetBool("werror")
	}
	if flags.Changed("cache") {
		cfg.Build.Cache, _ = flags.GetBool("cache")
	}
	if flags.Changed("out") {
		out, _ := flags.GetString("out")
		s.outDir = resolveAgainst(dir, out)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.jobs = cfg.Build.Jobs
	if s.jobs <= 0 {
		s.jobs = runtime.GOMAXPROCS(0)
	}
	s.cache = cfg.Build.Cache
	s.werror = cfg.Build.Werror
	s.trace = cfg.Trace
	s.compile = driver.Options{
		Fold:     cfg.Build.Fold,
		Simplify: cfg.Build.Simplify,
		Jobs:     s.jobs,
		Emit:     cfg.Build.Emit,
	}
	if err := s.refreshFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

// refreshFiles expands the positional arguments, or the manifest inputs
// when there are none.
func (s *buildSettings) refreshFiles() error {
	var files []string
	switch {
	case len(s.args) > 0:
		for _, arg := range s.args {
			expanded, err := expandInput(resolveAgainst(s.dir, arg))
			if err != nil {
				return err
			}
			files = append(files, expanded...)
		}
	case s.manifest != nil:
		inputs, err := s.manifest.Inputs()
		if err != nil {
			return err
		}
		files = inputs
	}
	if len(files) == 0 {
		return errors.New(noInputsMessage)
	}
	s.files = files
	return nil
}

// watchDirs lists the directories holding inputs.
func (s *buildSettings) watchDirs() []string {
	var dirs []string
	for _, f := range s.files {
		d := filepath.Dir(f)
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	if s.manifest != nil && !slices.Contains(dirs, s.manifest.Root) {
		dirs = append(dirs, s.manifest.Root)
	}
	slices.Sort(dirs)
	return dirs
}

func expandInput(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	for _, ext := range inputExts {
		matches, err := filepath.Glob(filepath.Join(path, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return files, nil
}

func resolveAgainst(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
