package ocrsolve_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/njchilds90/ocrsolve"
)

func symJSON(name string) map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": name}
}

func TestHandleToolCall_Process(t *testing.T) {
	resp := ocrsolve.HandleToolCall(ocrsolve.ToolRequest{
		Tool:   "process",
		Params: map[string]interface{}{"text": "2x+4=1O", "origin": "ocr"},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.String != "recognized text: 2x+4=1O\nsolution: 3" {
		t.Errorf("got %q", resp.String)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("want map result, got %T", resp.Result)
	}
	if result["cleaned"] != "2x+4=10" || result["kind"] != "solutions" {
		t.Errorf("got %v", result)
	}
}

func TestHandleToolCall_Text(t *testing.T) {
	cases := []struct {
		name   string
		tool   string
		params map[string]interface{}
		want   string
	}{
		{"sanitize", "sanitize", map[string]interface{}{"text": "3×x"}, "3*x"},
		{"parse", "parse", map[string]interface{}{"text": "2x+3"}, "((2 * x) + 3)"},
		{"simplify text", "simplify", map[string]interface{}{"text": "2x+3x"}, "simplified expression: 5*x"},
		{"solve", "solve", map[string]interface{}{"text": "y^2 = 9", "target": "y"}, "solution: -3, 3"},
		{"solve real only", "solve", map[string]interface{}{"text": "x^2 = -1", "real_only": true}, "no solution"},
		{"target is normalized", "solve", map[string]interface{}{"text": "y^2 = 4", "target": " Y "}, "solution: -2, 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := ocrsolve.HandleToolCall(ocrsolve.ToolRequest{Tool: tc.tool, Params: tc.params})
			if resp.Error != "" {
				t.Fatalf("unexpected error: %s", resp.Error)
			}
			if resp.String != tc.want {
				t.Errorf("want %q, got %q", tc.want, resp.String)
			}
		})
	}
}

func TestHandleToolCall_ExprParams(t *testing.T) {
	sum := map[string]interface{}{"type": "add", "terms": []interface{}{symJSON("y"), symJSON("x"), symJSON("x")}}

	resp := ocrsolve.HandleToolCall(ocrsolve.ToolRequest{Tool: "simplify", Params: map[string]interface{}{"expr": sum}})
	if resp.String != "simplified expression: 2*x + y" {
		t.Errorf("simplify: got %q (%s)", resp.String, resp.Error)
	}

	resp = ocrsolve.HandleToolCall(ocrsolve.ToolRequest{Tool: "canonicalize", Params: map[string]interface{}{"expr": sum}})
	if resp.String != "2*x + y" {
		t.Errorf("canonicalize: got %q (%s)", resp.String, resp.Error)
	}

	resp = ocrsolve.HandleToolCall(ocrsolve.ToolRequest{Tool: "free_symbols", Params: map[string]interface{}{"expr": sum}})
	if !reflect.DeepEqual(resp.Result, []string{"x", "y"}) {
		t.Errorf("free_symbols: got %v", resp.Result)
	}

	half := map[string]interface{}{"type": "num", "value": "1/2"}
	resp = ocrsolve.HandleToolCall(ocrsolve.ToolRequest{Tool: "to_latex", Params: map[string]interface{}{"expr": half}})
	if resp.LaTeX != `\frac{1}{2}` {
		t.Errorf("to_latex: got %q (%s)", resp.LaTeX, resp.Error)
	}
}

func TestHandleToolCall_Errors(t *testing.T) {
	cases := []struct {
		name   string
		req    ocrsolve.ToolRequest
		substr string
	}{
		{"unknown tool", ocrsolve.ToolRequest{Tool: "nope"}, "unknown tool: nope"},
		{"missing text", ocrsolve.ToolRequest{Tool: "process", Params: map[string]interface{}{}}, "missing param: text"},
		{"text not string", ocrsolve.ToolRequest{Tool: "sanitize", Params: map[string]interface{}{"text": 3.0}}, "must be a string"},
		{"bad target", ocrsolve.ToolRequest{Tool: "solve", Params: map[string]interface{}{"text": "x=1", "target": "w"}}, "unknown target variable"},
		{"bad origin", ocrsolve.ToolRequest{Tool: "process", Params: map[string]interface{}{"text": "x", "origin": "fax"}}, "unknown origin"},
		{"solve without equals", ocrsolve.ToolRequest{Tool: "solve", Params: map[string]interface{}{"text": "x+1"}}, "has no '='"},
		{"simplify equation", ocrsolve.ToolRequest{Tool: "simplify", Params: map[string]interface{}{"text": "x=1"}}, "use solve"},
		{"parse failure", ocrsolve.ToolRequest{Tool: "parse", Params: map[string]interface{}{"text": "(x"}}, "unbalanced parentheses"},
		{"unsolvable", ocrsolve.ToolRequest{Tool: "solve", Params: map[string]interface{}{"text": "x = x + 1"}}, "no solution"},
		{"bad expr", ocrsolve.ToolRequest{Tool: "canonicalize", Params: map[string]interface{}{"expr": "x"}}, "invalid type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := ocrsolve.HandleToolCall(tc.req)
			if !strings.Contains(resp.Error, tc.substr) {
				t.Errorf("want error containing %q, got %q", tc.substr, resp.Error)
			}
		})
	}
}

func TestMCPToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal([]byte(ocrsolve.MCPToolSpec()), &spec); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range spec.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"process", "sanitize", "parse", "simplify", "solve", "canonicalize", "to_latex", "free_symbols", "mcp_spec"} {
		if !names[want] {
			t.Errorf("schema is missing tool %q", want)
		}
	}
}

func TestResultJSON(t *testing.T) {
	r := evalText(t, "x^2 = 4")
	m := ocrsolve.ResultJSON(r)
	if m["kind"] != "solutions" || m["target"] != "x" {
		t.Errorf("got %v", m)
	}
	if !reflect.DeepEqual(m["strings"], []string{"-2", "2"}) {
		t.Errorf("want strings [-2 2], got %v", m["strings"])
	}
	u := ocrsolve.ResultJSON(ocrsolve.Unsolvable(ocrsolve.ReasonNoSolution))
	if u["reason"] != ocrsolve.ReasonNoSolution {
		t.Errorf("got %v", u)
	}
}
