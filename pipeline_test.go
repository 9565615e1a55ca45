package ocrsolve_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/njchilds90/ocrsolve"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPipeline_Process(t *testing.T) {
	p := ocrsolve.NewPipeline(quietLogger())
	out := p.Process(ocrsolve.RawText{Text: "2×x+4=1O"})
	if out.Cleaned != "2*x+4=10" {
		t.Errorf("cleaned: want %q, got %q", "2*x+4=10", out.Cleaned)
	}
	if out.Statement == nil || out.Statement.String() != "((2 * x) + 4) = 10" {
		t.Errorf("parsed: got %v", out.Statement)
	}
	if out.Result.Kind != ocrsolve.ResultSolutions {
		t.Errorf("want solutions, got %s", out.Result.Kind)
	}
	if out.Display != "solution: 3" {
		t.Errorf("display: want %q, got %q", "solution: 3", out.Display)
	}
}

func TestPipeline_Run(t *testing.T) {
	cases := []struct {
		name string
		raw  ocrsolve.RawText
		want string
	}{
		{"typed", ocrsolve.RawText{Text: "x² − 5x + 6 = 0"}, "solution: 2, 3"},
		{"ocr", ocrsolve.RawText{Text: "x£^2 - 4 = 0", Origin: ocrsolve.OriginOCR}, "recognized text: x£^2 - 4 = 0\nsolution: -2, 2"},
		{"speech", ocrsolve.RawText{Text: " 2x = 4 ", Origin: ocrsolve.OriginSpeech}, "recognized text: 2x = 4\nsolution: 2"},
		{"radical", ocrsolve.RawText{Text: "v(8) + 2"}, "simplified expression: 2*sqrt(2) + 2"},
		{"raised four", ocrsolve.RawText{Text: "x⁴ = 16"}, "solution: -2, -2*I, 2*I, 2"},
		{"raised one", ocrsolve.RawText{Text: "x¹ = 5"}, "solution: 5"},
		{"vulgar fraction", ocrsolve.RawText{Text: "½x = 3"}, "solution: 6"},
		{"square of a sum", ocrsolve.RawText{Text: "(x-3)^2 = 0"}, "solution: 3"},
		{"imaginary result", ocrsolve.RawText{Text: "sqrt(-4)"}, "simplified expression: 2*I"},
		{"not math", ocrsolve.RawText{Text: "hello there"}, "error: not a mathematical expression"},
		{"parse error", ocrsolve.RawText{Text: "2+"}, `error: operator is missing an operand: "+" has no right operand at 1`},
	}
	p := ocrsolve.NewPipeline(quietLogger())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Run(tc.raw); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPipeline_DeepNestingIsInvalid(t *testing.T) {
	text := strings.Repeat("(", 400000) + "x" + strings.Repeat(")", 400000)
	out := ocrsolve.NewPipeline(quietLogger()).Process(ocrsolve.RawText{Text: text})
	if out.Result.Kind != ocrsolve.ResultInvalid || !errors.Is(out.Result.Err, ocrsolve.ErrTooDeep) {
		t.Errorf("want invalid too-deep result, got %s: %v", out.Result.Kind, out.Result.Err)
	}
}

func TestPipeline_InvalidOutcome(t *testing.T) {
	out := ocrsolve.NewPipeline(quietLogger()).Process(ocrsolve.RawText{Text: "hello"})
	if out.Statement != nil {
		t.Errorf("want no statement, got %v", out.Statement)
	}
	if out.Result.Kind != ocrsolve.ResultInvalid || !errors.Is(out.Result.Err, ocrsolve.ErrNonMath) {
		t.Errorf("want invalid non-math result, got %+v", out.Result)
	}
}

func TestPipeline_Options(t *testing.T) {
	p := ocrsolve.NewPipeline(quietLogger(), ocrsolve.WithTarget("y"), ocrsolve.WithRealOnly())
	if got := p.Run(ocrsolve.RawText{Text: "y^2 + 4 = 0"}); got != "no solution" {
		t.Errorf("want 'no solution', got %q", got)
	}
	if got := p.Run(ocrsolve.RawText{Text: "y^2 = 4"}); got != "solution: -2, 2" {
		t.Errorf("want 'solution: -2, 2', got %q", got)
	}
}

func TestPipeline_CustomSanitizer(t *testing.T) {
	s := ocrsolve.NewSanitizer(ocrsolve.Substitution{From: "equals", To: "="})
	p := ocrsolve.NewPipelineWithSanitizer(s, quietLogger())
	if got := p.Run(ocrsolve.RawText{Text: "2x equals 8"}); got != "solution: 4" {
		t.Errorf("want 'solution: 4', got %q", got)
	}
}

func TestPipeline_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ocrsolve.NewPipeline(logger).Run(ocrsolve.RawText{Text: "(x+1", Origin: ocrsolve.OriginOCR})
	logs := buf.String()
	for _, want := range []string{"sanitized input", "parse failed", "origin=ocr"} {
		if !strings.Contains(logs, want) {
			t.Errorf("log output missing %q:\n%s", want, logs)
		}
	}
}

func TestPipeline_Concurrent(t *testing.T) {
	p := ocrsolve.NewPipeline(quietLogger())
	inputs := map[string]string{
		"x^2 = 9":     "solution: -3, 3",
		"2x + 3x":     "simplified expression: 5*x",
		"1/(x-1) = 0": "error: no solution",
	}
	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 16; i++ {
		for in, want := range inputs {
			wg.Add(1)
			go func(in, want string) {
				defer wg.Done()
				if got := p.Run(ocrsolve.RawText{Text: in}); got != want {
					errs <- in + ": " + got
				}
			}(in, want)
		}
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestRun_Default(t *testing.T) {
	if got := ocrsolve.Run("x = x"); got != "solution: infinitely many solutions" {
		t.Errorf("got %q", got)
	}
}

func TestParseOrigin(t *testing.T) {
	cases := []struct {
		in   string
		want ocrsolve.Origin
	}{
		{"", ocrsolve.OriginDirect},
		{"direct", ocrsolve.OriginDirect},
		{"OCR", ocrsolve.OriginOCR},
		{"image", ocrsolve.OriginOCR},
		{" speech ", ocrsolve.OriginSpeech},
		{"voice", ocrsolve.OriginSpeech},
	}
	for _, tc := range cases {
		got, err := ocrsolve.ParseOrigin(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("%q: want %s, got %s (%v)", tc.in, tc.want, got, err)
		}
	}
	if _, err := ocrsolve.ParseOrigin("fax"); err == nil {
		t.Error("want error for unknown origin")
	}
}
