// cmd/mathrepl/main.go — interactive front end for ocrsolve
//
// Reads one expression or equation per line, runs it through the pipeline
// and prints the display string.
//
// Usage:
//
//	go run ./cmd/mathrepl            # REPL
//	go run ./cmd/mathrepl -e '2x+3=7'
//	echo 'x^2=4' | go run ./cmd/mathrepl -origin ocr -
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/njchilds90/ocrsolve"
)

const (
	appName     = "mathrepl"
	historyFile = ".mathrepl_history"
	promptMain  = "math> "
	banner      = "ocrsolve REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	helpText    = `
REPL commands:
  :help             Show this help
  :quit / :exit     Exit the REPL
  :target <x|y|z>   Variable to solve for
  :real on|off      Drop complex roots
  :origin <kind>    Treat input as direct, ocr or speech text
  :clean <text>     Show the sanitized text only
`
)

// session holds the REPL settings that commands change.
type session struct {
	target   string
	realOnly bool
	origin   ocrsolve.Origin
	logger   *slog.Logger
	out      io.Writer
}

func main() {
	var evalStr, target, origin string
	var realOnly, verbose bool
	flag.StringVar(&evalStr, "e", "", "Evaluate the given text and exit")
	flag.StringVar(&target, "target", ocrsolve.DefaultTarget, "Variable to solve for")
	flag.StringVar(&origin, "origin", "direct", "Input origin: direct, ocr or speech")
	flag.BoolVar(&realOnly, "real", false, "Drop complex roots")
	flag.BoolVar(&verbose, "v", false, "Log pipeline stages to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	target = ocrsolve.NormalizeTarget(target)
	s := &session{
		target:   target,
		realOnly: realOnly,
		logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		out:      os.Stdout,
	}
	if err := ocrsolve.ValidateTarget(target); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(2)
	}
	o, err := ocrsolve.ParseOrigin(origin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(2)
	}
	s.origin = o

	switch {
	case evalStr != "":
		fmt.Fprintln(s.out, s.eval(evalStr))
	case flag.NArg() > 0 && flag.Arg(0) == "-":
		os.Exit(s.runStream(os.Stdin))
	default:
		os.Exit(s.runREPL())
	}
}

// eval runs one line through the pipeline.
func (s *session) eval(line string) string {
	opts := []ocrsolve.Option{ocrsolve.WithTarget(s.target)}
	if s.realOnly {
		opts = append(opts, ocrsolve.WithRealOnly())
	}
	p := ocrsolve.NewPipeline(s.logger, opts...)
	return p.Run(ocrsolve.RawText{Text: line, Origin: s.origin})
}

// runStream evaluates every non-blank line of r.
func (s *session) runStream(r io.Reader) int {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintln(s.out, s.eval(line))
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}

func (s *session) runREPL() int {
	fmt.Fprintln(s.out, banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			break
		}
		if err != nil {
			// Ctrl+C aborts the current input.
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if s.handleCommand(line) {
				break
			}
			continue
		}
		fmt.Fprintln(s.out, s.eval(line))
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// handleCommand runs a ':' command and reports whether the REPL should exit.
func (s *session) handleCommand(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(s.out, helpText)

	case ":quit", ":exit":
		return true

	case ":target":
		if arg == "" {
			fmt.Fprintf(s.out, "target: %s\n", s.target)
			return false
		}
		name := ocrsolve.NormalizeTarget(arg)
		if err := ocrsolve.ValidateTarget(name); err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.target = name
		fmt.Fprintf(s.out, "target: %s\n", s.target)

	case ":real":
		switch strings.ToLower(arg) {
		case "on":
			s.realOnly = true
		case "off":
			s.realOnly = false
		case "":
		default:
			fmt.Fprintln(s.out, "usage: :real on|off")
			return false
		}
		fmt.Fprintf(s.out, "real only: %v\n", s.realOnly)

	case ":origin":
		o, err := ocrsolve.ParseOrigin(arg)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.origin = o
		fmt.Fprintf(s.out, "origin: %s\n", s.origin)

	case ":clean":
		fmt.Fprintf(s.out, "%q\n", ocrsolve.Sanitize(arg))

	default:
		fmt.Fprintln(s.out, "unknown command. Type :help for help.")
	}
	return false
}
