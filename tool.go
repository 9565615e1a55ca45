package ocrsolve

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param %s", key)
		}
		return FromJSON(val)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return "", nil
		}
		return getString(key)
	}
	optBool := func(key string) (bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("param %s must be a boolean", key)
		}
		return b, nil
	}
	evalOptions := func() ([]Option, error) {
		var opts []Option
		target, err := optString("target")
		if err != nil {
			return nil, err
		}
		target = NormalizeTarget(target)
		if target != "" {
			if err := ValidateTarget(target); err != nil {
				return nil, err
			}
			opts = append(opts, WithTarget(target))
		}
		realOnly, err := optBool("real_only")
		if err != nil {
			return nil, err
		}
		if realOnly {
			opts = append(opts, WithRealOnly())
		}
		return opts, nil
	}
	respond := func(e Expr) ToolResponse {
		return ToolResponse{Result: e.toJSON(), LaTeX: e.LaTeX(), String: e.String()}
	}
	respondResult := func(r Result) ToolResponse {
		resp := ToolResponse{Result: ResultJSON(r), LaTeX: FormatLaTeX(r), String: Format(r)}
		if r.Kind == ResultInvalid || r.Kind == ResultUnsolvable {
			resp.Error = r.Reason
		}
		return resp
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "process":
		text, err := getString("text")
		if err != nil {
			return fail(err)
		}
		originName, err := optString("origin")
		if err != nil {
			return fail(err)
		}
		origin, err := ParseOrigin(originName)
		if err != nil {
			return fail(err)
		}
		opts, err := evalOptions()
		if err != nil {
			return fail(err)
		}
		out := NewPipeline(nil, opts...).Process(RawText{Text: text, Origin: origin})
		result := ResultJSON(out.Result)
		result["cleaned"] = out.Cleaned
		if out.Statement != nil {
			result["parsed"] = out.Statement.String()
		}
		return ToolResponse{Result: result, LaTeX: FormatLaTeX(out.Result), String: out.Display}

	case "sanitize":
		text, err := getString("text")
		if err != nil {
			return fail(err)
		}
		cleaned := Sanitize(text)
		return ToolResponse{
			Result: map[string]interface{}{"cleaned": cleaned, "math_like": IsMathLike(cleaned)},
			String: cleaned,
		}

	case "parse":
		text, err := getString("text")
		if err != nil {
			return fail(err)
		}
		stmt, err := Parse(text)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{
			Result: map[string]interface{}{"kind": stmt.Kind.String(), "tree": stmt.String()},
			String: stmt.String(),
		}

	case "simplify":
		if _, ok := req.Params["expr"]; ok {
			e, err := getExpr("expr")
			if err != nil {
				return fail(err)
			}
			return respondResult(SimplifyExpr(e))
		}
		text, err := getString("text")
		if err != nil {
			return fail(err)
		}
		stmt, err := Parse(Sanitize(text))
		if err != nil {
			return respondResult(Invalid(err))
		}
		if stmt.Kind != KindExpr {
			return fail(fmt.Errorf("simplify: %q is an equation, use solve", text))
		}
		return respondResult(Evaluate(stmt))

	case "solve":
		text, err := getString("text")
		if err != nil {
			return fail(err)
		}
		opts, err := evalOptions()
		if err != nil {
			return fail(err)
		}
		stmt, err := Parse(Sanitize(text))
		if err != nil {
			return respondResult(Invalid(err))
		}
		if stmt.Kind != KindEquation {
			return fail(fmt.Errorf("solve: %q has no '='", text))
		}
		return respondResult(Evaluate(stmt, opts...))

	case "to_latex":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return ToolResponse{LaTeX: e.LaTeX(), String: e.LaTeX()}

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		names := SortedSymbols(e)
		return ToolResponse{Result: names, String: fmt.Sprint(names)}

	case "canonicalize":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(Canonicalize(e))

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("process", "Sanitize, parse and simplify or solve noisy text (OCR, speech, typed)", []string{"text"}, map[string]string{"text": "string", "origin": "string", "target": "string", "real_only": "boolean"}),
		ts("sanitize", "Clean noisy text into the parser alphabet", []string{"text"}, map[string]string{"text": "string"}),
		ts("parse", "Parse cleaned text into a fully parenthesized tree", []string{"text"}, map[string]string{"text": "string"}),
		ts("simplify", "Simplify an expression given as text or as an expression object", []string{}, map[string]string{"text": "string", "expr": "object"}),
		ts("solve", "Solve an equation for x, y or z", []string{"text"}, map[string]string{"text": "string", "target": "string", "real_only": "boolean"}),
		ts("canonicalize", "Expand and canonicalize an expression object", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
