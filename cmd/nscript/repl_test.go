package main

import (
	"io"
	"reflect"
	"testing"

	"github.com/peterh/liner"

	"github.com/agenthands/nscript/pkg/interp"
)

type scriptedPrompter struct {
	lines   []string
	prompts []string
	errAt   int
	err     error
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil && len(p.prompts) == p.errAt {
		return "", p.err
	}
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func TestReadUntilParsed(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		want        string
		wantPrompts []string
		parsed      bool
	}{
		{"single line", []string{"var x 1"}, "var x 1", []string{promptMain}, true},
		{
			"open loop continues",
			[]string{"loop x < 3", "add x y", "end"},
			"loop x < 3\nadd x y\nend",
			[]string{promptMain, promptCont, promptCont},
			true,
		},
		{"open string continues", []string{"string s a", "b endstring"}, "string s a\nb endstring", []string{promptMain, promptCont}, true},
		{"syntax error stops", []string{"frobnicate"}, "frobnicate", []string{promptMain}, false},
		{"repl command", []string{":env"}, ":env", []string{promptMain}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scriptedPrompter{lines: tt.lines}
			got, prog, ok := readUntilParsed(p, promptMain, promptCont)
			if !ok {
				t.Fatal("unexpected end of input")
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if (prog != nil) != tt.parsed {
				t.Errorf("expected parsed %v, got program %v", tt.parsed, prog)
			}
			if !reflect.DeepEqual(p.prompts, tt.wantPrompts) {
				t.Errorf("expected prompts %q, got %q", tt.wantPrompts, p.prompts)
			}
		})
	}
}

func TestReadUntilParsedEOF(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"if x == 1"}}
	if _, _, ok := readUntilParsed(p, promptMain, promptCont); ok {
		t.Errorf("expected end of input")
	}
}

func TestReadUntilParsedAbort(t *testing.T) {
	p := &scriptedPrompter{lines: []string{"loop x < 3", "print x"}, errAt: 2, err: liner.ErrPromptAborted}
	got, prog, ok := readUntilParsed(p, promptMain, promptCont)
	if !ok || got != "" || prog != nil {
		t.Errorf("expected the pending input to be dropped, got %q, %v", got, ok)
	}
}

func TestComplete(t *testing.T) {
	it := interp.New(interp.WithSink(interp.NewBufferSink()))
	if _, err := it.Run("var counter 1 var count 2"); err != nil {
		t.Fatal(err)
	}

	got := complete("add cou", it)
	want := []string{"add count", "add counter"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}

	got = complete("pri", it)
	if !reflect.DeepEqual(got, []string{"print"}) {
		t.Errorf("expected keyword completion, got %q", got)
	}
	if got := complete("var x ", it); got != nil {
		t.Errorf("expected no completion for an empty word, got %q", got)
	}
}
