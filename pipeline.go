package ocrsolve

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Origin names the collaborator that produced a RawText.
type Origin int

const (
	OriginDirect Origin = iota
	OriginOCR
	OriginSpeech
)

func (o Origin) String() string {
	switch o {
	case OriginOCR:
		return "ocr"
	case OriginSpeech:
		return "speech"
	}
	return "direct"
}

// ParseOrigin maps "direct", "ocr" or "speech" to an Origin. The empty
// string is OriginDirect.
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct", "text":
		return OriginDirect, nil
	case "ocr", "image":
		return OriginOCR, nil
	case "speech", "voice":
		return OriginSpeech, nil
	}
	return OriginDirect, fmt.Errorf("unknown origin %q", s)
}

// RawText is one unit of input as delivered by a collaborator.
type RawText struct {
	Text   string
	Origin Origin
}

// Outcome records every stage of one Process call.
type Outcome struct {
	Raw       RawText
	Cleaned   string
	Statement *Statement // nil when parsing failed
	Result    Result
	Display   string
}

// Pipeline runs sanitize, parse, evaluate and format. A Pipeline holds no
// mutable state and is safe for concurrent use.
type Pipeline struct {
	sanitizer *Sanitizer
	opts      []Option
	logger    *slog.Logger
}

// NewPipeline builds a Pipeline with the default sanitizer. A nil logger
// uses slog.Default().
func NewPipeline(logger *slog.Logger, opts ...Option) *Pipeline {
	return NewPipelineWithSanitizer(defaultSanitizer, logger, opts...)
}

// NewPipelineWithSanitizer is NewPipeline with a custom Sanitizer.
func NewPipelineWithSanitizer(s *Sanitizer, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if s == nil {
		s = defaultSanitizer
	}
	return &Pipeline{sanitizer: s, opts: opts, logger: logger}
}

// Process runs every stage on raw. Failures at any stage end up in the
// Result; Process itself never fails.
func (p *Pipeline) Process(raw RawText) Outcome {
	start := time.Now()
	out := Outcome{Raw: raw}
	out.Cleaned = p.sanitizer.Sanitize(raw.Text)
	p.logger.Debug("sanitized input",
		"origin", raw.Origin.String(),
		"raw_bytes", len(raw.Text),
		"cleaned", out.Cleaned,
	)

	stmt, err := Parse(out.Cleaned)
	if err != nil {
		out.Result = Invalid(err)
		p.logger.Info("parse failed", "cleaned", out.Cleaned, "error", err)
	} else {
		out.Statement = stmt
		out.Result = Evaluate(stmt, p.opts...)
		if out.Result.Kind == ResultUnsolvable {
			p.logger.Info("evaluation failed", "statement", stmt.String(), "reason", out.Result.Reason)
		}
	}

	out.Display = FormatRecognized(raw, out.Result)
	p.logger.Debug("processed input",
		"origin", raw.Origin.String(),
		"kind", out.Result.Kind.String(),
		"duration", time.Since(start),
	)
	return out
}

// Run processes raw and returns only the display string.
func (p *Pipeline) Run(raw RawText) string {
	return p.Process(raw).Display
}

// Run processes typed text with default options.
func Run(text string) string {
	return NewPipeline(nil).Run(RawText{Text: text, Origin: OriginDirect})
}
