package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"github.com/agenthands/nscript/pkg/compiler/ast"
	"github.com/agenthands/nscript/pkg/compiler/lexer"
	"github.com/agenthands/nscript/pkg/core/fault"
	"github.com/agenthands/nscript/pkg/interp"
)

const (
	banner      = "nscript REPL. Blocks continue until their end. Type :help for commands."
	promptMain  = "ns> "
	promptCont  = "... "
	historyFile = ".nscript_history"
)

const replHelp = `:env    show global bindings
:reset  start over with an empty environment
:quit   leave the REPL`

// prompter is the part of liner.State the input loop needs.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func cmdRepl(args []string) int {
	replCmd := flag.NewFlagSet("repl", flag.ContinueOnError)
	cfgPath := replCmd.String("config", "", "settings file (default ./.nscript.yaml)")
	verbose := replCmd.Bool("v", false, "trace execution")
	if err := replCmd.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*cfgPath, *verbose)
	if err != nil {
		log.Errf("%v", err)
		return 1
	}

	histPath := cfg.HistoryFile
	if histPath == "" {
		home, _ := os.UserHomeDir()
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	cache := newParseCache(cfg)
	it := newInterpreter(cfg, cache)
	ln.SetCompleter(func(line string) []string {
		return complete(line, it)
	})

	fmt.Println(banner)
	for {
		code, prog, ok := readUntilParsed(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return 0
			case ":env":
				if err := writeBindings(os.Stdout, it.Bindings()); err != nil {
					log.Errf("%v", err)
				}
			case ":reset":
				if cache != nil {
					cache.Purge()
				}
				it = newInterpreter(cfg, cache)
			case ":help":
				fmt.Println(replHelp)
			default:
				fmt.Println("unknown command. Type :help for commands.")
			}
			continue
		}

		var err error
		if prog != nil {
			_, err = it.RunProgram(prog)
		} else {
			_, err = it.Run(code)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	return 0
}

// readUntilParsed reads lines until they form a program that parses, or one
// that fails for a reason more input cannot fix. The program is nil unless the
// input parsed.
func readUntilParsed(ln prompter, prompt, cont string) (string, *ast.Program, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", nil, false
		}
		if err != nil {
			// Ctrl-C drops the pending input
			return "", nil, true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, nil, true
		}
		prog, perr := interp.Parse(src)
		if perr != nil && fault.IsIncomplete(perr) {
			continue
		}
		return src, prog, true
	}
}

// complete offers keywords and global names matching the last word of line.
func complete(line string, it *interp.Interpreter) []string {
	start := strings.LastIndexAny(line, " \t") + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(cand string) {
		if strings.HasPrefix(cand, word) && !seen[cand] {
			seen[cand] = true
			out = append(out, prefix+cand)
		}
	}
	for _, kw := range lexer.Keywords() {
		add(kw)
	}
	var names []string
	for name := range it.Globals() {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		add(name)
	}
	return out
}
