// The mdlxconv command converts models between the MDX and MDL encodings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/convert"
	"github.com/warcodec/mdlx/internal/config"
	"github.com/warcodec/mdlx/internal/logger"
	"github.com/warcodec/mdlx/internal/worker"
	"go.uber.org/zap"
)

const usage = `usage: mdlxconv [FLAGS] INPUT [OUTPUT]

Converts MDX files to MDL and MDL files to MDX.

If INPUT is a file, OUTPUT may be a file or a directory. Without OUTPUT, the
converted file is written next to INPUT with the other extension.

If INPUT is a directory, every model within it is converted, and OUTPUT must
be a directory, which defaults to INPUT. The directory hierarchy is kept
unless -F is given. Existing outputs are skipped unless -f is given.

Settings are read from the file given by -config, or from ./mdlx.yaml, or
from the user config directory. Flags override the file.

FLAGS:
`

// task is a single file conversion.
type task struct {
	input  string
	output string
}

// planner builds the list of tasks of a run.
type planner struct {
	cfg  *config.Config
	only convert.Kind // Unknown converts both ways.
}

// accept returns the kind of path if it is a model to convert.
func (p planner) accept(path string) (convert.Kind, bool) {
	kind, err := convert.KindOf(path)
	if err != nil {
		return convert.Unknown, false
	}
	if p.only != convert.Unknown && kind != p.only {
		return kind, false
	}
	return kind, true
}

func (p planner) plan(input, output string) ([]task, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		kind, ok := p.accept(input)
		if !ok {
			return nil, fmt.Errorf("%s: not a model to convert", input)
		}
		out := convert.SwapExt(input, kind.Other())
		if output != "" {
			out = output
			if oi, err := os.Stat(output); err == nil && oi.IsDir() {
				out = filepath.Join(output, convert.SwapExt(filepath.Base(input), kind.Other()))
			}
		}
		return []task{{input: input, output: out}}, nil
	}

	if output == "" {
		output = input
	} else if oi, err := os.Stat(output); err == nil && !oi.IsDir() {
		return nil, fmt.Errorf("%s: output of a directory must be a directory", output)
	}
	var tasks []task
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		if d.IsDir() {
			if depth >= p.cfg.Convert.MaxDepth && rel != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if depth > p.cfg.Convert.MaxDepth {
			return nil
		}
		kind, ok := p.accept(path)
		if !ok {
			return nil
		}
		if p.cfg.Convert.Flat {
			rel = filepath.Base(rel)
		}
		tasks = append(tasks, task{
			input:  path,
			output: filepath.Join(output, convert.SwapExt(rel, kind.Other())),
		})
		return nil
	})
	return tasks, err
}

// job returns the worker job converting t.
func job(t task, f mdlx.Format, cfg *config.Config) worker.Job {
	return func(ctx context.Context) (worker.Status, error) {
		if !cfg.Convert.Overwrite {
			if _, err := os.Stat(t.output); err == nil {
				logger.Debug("skipped", zap.String("output", t.output))
				return worker.Skipped, nil
			}
		}
		model, warn, err := convert.Convert(t.input, t.output, f)
		for _, w := range convert.Warnings(warn) {
			logger.Warn(w.Error())
		}
		if err != nil {
			return worker.Done, err
		}
		if cfg.Convert.Verify {
			if err := convert.Verify(model, t.output, f); err != nil {
				return worker.Done, err
			}
		}
		logger.Debug("converted", zap.String("input", t.input), zap.String("output", t.output))
		return worker.Done, nil
	}
}

func run(args []string) int {
	fset := flag.NewFlagSet("mdlxconv", flag.ContinueOnError)
	fset.Usage = func() {
		fmt.Fprint(fset.Output(), usage)
		fset.PrintDefaults()
	}
	fl := config.RegisterFlags(fset)
	saveConfig := fset.String("save-config", "", "Write the effective config to a file and exit")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(fl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *saveConfig != "" {
		if err := cfg.SaveTo(*saveConfig); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("save config: %w", err))
			return 1
		}
		return 0
	}
	if fset.NArg() < 1 || fset.NArg() > 2 {
		fset.Usage()
		return 2
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Sync()

	f, _ := cfg.Format()
	p := planner{cfg: cfg}
	switch {
	case fl.MDLToMDX && fl.MDXToMDL:
	case fl.MDLToMDX:
		p.only = convert.MDL
	case fl.MDXToMDL:
		p.only = convert.MDX
	}
	tasks, err := p.plan(fset.Arg(0), fset.Arg(1))
	if err != nil {
		logger.Error("plan", zap.Error(err))
		return 1
	}

	pool := worker.New(context.Background(), worker.Options{
		Workers:     cfg.Convert.Workers,
		StopOnError: cfg.Convert.StopOnError,
		Log:         logger.Log,
	})
	for _, t := range tasks {
		if !pool.Submit(t.input, job(t, f, cfg)) {
			break
		}
	}
	summary := pool.Wait()
	if !fl.Quiet {
		fmt.Println(summary)
	}
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
