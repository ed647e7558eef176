package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"fortio.org/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/term"

	"github.com/agenthands/nscript/pkg/compiler/emitter"
	"github.com/agenthands/nscript/pkg/config"
	"github.com/agenthands/nscript/pkg/interp"
	"github.com/agenthands/nscript/pkg/stdlib"
)

const usage = `Usage: nscript <command> [arguments]

Commands:
  run <file.ns> [-gas N] [-watch] [-env] [-config path] [-v]
  fmt [-w] <file.ns>...
  ast <file.ns>
  repl [-config path] [-v]

Without a command nscript starts the REPL on a terminal and otherwise runs
the program read from standard input.`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return cmdRepl(nil)
		}
		return cmdStdin()
	}

	switch args[0] {
	case "run":
		return cmdRun(args[1:])
	case "fmt":
		return cmdFmt(args[1:])
	case "ast":
		return cmdAST(args[1:])
	case "repl":
		return cmdRepl(args[1:])
	case "help", "-h", "--help":
		fmt.Println(usage)
		return 0
	default:
		fmt.Fprintln(os.Stderr, "Unknown command:", args[0])
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}

// parseWithPath accepts flags before and after the first positional argument.
func parseWithPath(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() == 0 {
		return "", nil
	}
	path := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", err
	}
	return path, nil
}

func loadConfig(path string, verbose bool) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	lvl, _ := log.ValidateLevel(cfg.LogLevel)
	if verbose {
		lvl = log.Verbose
	}
	log.SetLogLevel(lvl)
	if cfg.Path != "" {
		log.LogVf("settings from %s", cfg.Path)
	}
	return cfg, nil
}

func newParseCache(cfg *config.Config) *interp.ParseCache {
	if cfg.ParseCache <= 0 {
		return nil
	}
	cache, err := interp.NewParseCache(cfg.ParseCache)
	if err != nil {
		log.Warnf("parse cache disabled: %v", err)
		return nil
	}
	return cache
}

func newInterpreter(cfg *config.Config, cache *interp.ParseCache) *interp.Interpreter {
	opts := []interp.Option{
		interp.WithOutput(os.Stdout),
		interp.WithGas(cfg.Gas),
		interp.WithMaxFrames(cfg.MaxFrames),
	}
	if cache != nil {
		opts = append(opts, interp.WithParseCache(cache))
	}
	return interp.New(opts...)
}

func cmdRun(args []string) int {
	runCmd := flag.NewFlagSet("run", flag.ContinueOnError)
	gasLimit := runCmd.Int("gas", -1, "maximum statements per run, 0 for unlimited (default from settings)")
	watch := runCmd.Bool("watch", false, "re-run the program whenever the file changes")
	dumpEnv := runCmd.Bool("env", false, "print the final global bindings as YAML")
	cfgPath := runCmd.String("config", "", "settings file (default ./"+config.FileName+")")
	verbose := runCmd.Bool("v", false, "trace execution")

	scriptPath, err := parseWithPath(runCmd, args)
	if err != nil {
		return 2
	}
	if scriptPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: nscript run <file.ns> [-gas N] [-watch] [-env] [-config path] [-v]")
		return 2
	}

	cfg, err := loadConfig(*cfgPath, *verbose)
	if err != nil {
		log.Errf("%v", err)
		return 1
	}
	if *gasLimit >= 0 {
		cfg.Gas = *gasLimit
	}

	sfs := stdlib.NewSourceFS("", cfg.MaxSourceBytes)
	cache := newParseCache(cfg)
	runOnce := func() int {
		src, err := sfs.ReadSource(scriptPath)
		if err != nil {
			log.Errf("Error reading file: %v", err)
			return 1
		}
		return execute(newInterpreter(cfg, cache), scriptPath, src, *dumpEnv)
	}

	code := runOnce()
	if !*watch {
		return code
	}
	return watchFile(scriptPath, func() { runOnce() })
}

func cmdStdin() int {
	cfg, err := loadConfig("", false)
	if err != nil {
		log.Errf("%v", err)
		return 1
	}
	src, err := stdlib.NewSourceFS("", cfg.MaxSourceBytes).ReadAll(os.Stdin)
	if err != nil {
		log.Errf("Error reading stdin: %v", err)
		return 1
	}
	return execute(newInterpreter(cfg, nil), "<stdin>", src, false)
}

func execute(it *interp.Interpreter, name, src string, dumpEnv bool) int {
	if _, err := it.Run(src); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return 1
	}
	if dumpEnv {
		if err := writeBindings(os.Stdout, it.Bindings()); err != nil {
			log.Errf("env dump: %v", err)
			return 1
		}
	}
	return 0
}

// watchFile calls onChange after every write to path until interrupted. The
// directory is watched because editors often replace files on save.
func watchFile(path string, onChange func()) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Errf("watch: %v", err)
		return 1
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Errf("watch %s: %v", path, err)
		return 1
	}
	target := filepath.Clean(path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Infof("watching %s, press Ctrl-C to stop", path)

	for {
		select {
		case <-ctx.Done():
			return 0
		case ev, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Infof("%s changed, running again", path)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			log.Warnf("watch: %v", err)
		}
	}
}

func cmdFmt(args []string) int {
	fmtCmd := flag.NewFlagSet("fmt", flag.ContinueOnError)
	write := fmtCmd.Bool("w", false, "write the result to the file instead of stdout")
	if err := fmtCmd.Parse(args); err != nil {
		return 2
	}
	if fmtCmd.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: nscript fmt [-w] <file.ns>...")
		return 2
	}

	sfs := stdlib.NewSourceFS("", config.Default().MaxSourceBytes)
	return formatFiles(os.Stdout, sfs, fmtCmd.Args(), *write)
}

// formatFiles prints the canonical form of each path to w, or rewrites the
// file in place when write is set.
func formatFiles(w io.Writer, sfs *stdlib.SourceFS, paths []string, write bool) int {
	status := 0
	for _, path := range paths {
		src, err := sfs.ReadSource(path)
		if err != nil {
			log.Errf("%v", err)
			status = 1
			continue
		}
		prog, err := interp.Parse(src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			status = 1
			continue
		}
		out, err := emitter.Format(prog)
		if err != nil {
			log.Errf("%s: %v", path, err)
			status = 1
			continue
		}

		if !write {
			if _, err := w.Write(out); err != nil {
				log.Errf("%s: %v", path, err)
				status = 1
			}
			continue
		}
		if string(out) == src {
			continue
		}
		if err := sfs.WriteSource(path, string(out)); err != nil {
			log.Errf("%v", err)
			status = 1
			continue
		}
		log.Infof("formatted %s", path)
	}
	return status
}

func cmdAST(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: nscript ast <file.ns>")
		return 2
	}
	src, err := stdlib.NewSourceFS("", config.Default().MaxSourceBytes).ReadSource(args[0])
	if err != nil {
		log.Errf("%v", err)
		return 1
	}
	prog, err := interp.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		return 1
	}

	dumper := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	dumper.Fdump(os.Stdout, prog)
	return 0
}
