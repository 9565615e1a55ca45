package ocrsolve

import (
	"errors"
	"strings"
)

// Display labels.
const (
	LabelSimplified = "simplified expression: "
	LabelSolution   = "solution: "
	LabelError      = "error: "
	LabelRecognized = "recognized text: "
	NoSolution      = "no solution"
	InfiniteRoots   = "infinitely many solutions"
	NotMath         = "not a mathematical expression"
)

// Format renders a Result as its display string. It is total over every
// Result value.
func Format(r Result) string {
	return render(r, Expr.String)
}

// FormatLaTeX renders the same labels with LaTeX bodies.
func FormatLaTeX(r Result) string {
	return render(r, Expr.LaTeX)
}

func render(r Result, body func(Expr) string) string {
	switch r.Kind {
	case ResultSimplified:
		if r.Expr == nil {
			return LabelError + "missing expression"
		}
		return LabelSimplified + body(r.Expr)
	case ResultSolutions:
		if len(r.Roots) == 0 {
			return NoSolution
		}
		parts := make([]string, len(r.Roots))
		for i, root := range r.Roots {
			parts[i] = body(root)
		}
		return LabelSolution + strings.Join(parts, ", ")
	case ResultInfinite:
		return LabelSolution + InfiniteRoots
	case ResultUnsolvable:
		return LabelError + r.Reason
	case ResultInvalid:
		if errors.Is(r.Err, ErrNonMath) {
			return LabelError + NotMath
		}
		if r.Err != nil {
			return LabelError + r.Err.Error()
		}
		return LabelError + r.Reason
	}
	return LabelError + "unknown result " + r.Kind.String()
}

// FormatRecognized prefixes the display with the recognized text for
// inputs that came from OCR or speech, so the user can see what was read.
func FormatRecognized(raw RawText, r Result) string {
	out := Format(r)
	if raw.Origin == OriginDirect {
		return out
	}
	return LabelRecognized + strings.TrimSpace(raw.Text) + "\n" + out
}
