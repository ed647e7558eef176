package emitter_test

import (
	"testing"

	"github.com/agenthands/nscript/pkg/compiler/emitter"
	"github.com/agenthands/nscript/pkg/compiler/parser"
)

func TestEmitterBasic(t *testing.T) {
	src := "var x 0 var y 1 loop x < 5 add x y end end print x"
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, err := emitter.Format(prog)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	want := "var x 0\nvar y 1\nloop x < 5\n  add x y\nend\nprint x\n"
	if string(out) != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

func TestEmitterNesting(t *testing.T) {
	src := `function f a with if a >= 2 call f 1 else string s  two   words endstring print s end end
		struct p x -1 y 2 endstruct array a 2 7 8 float g 0.1 call f a`
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out, err := emitter.Format(prog)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}

	want := `function f a with
  if a >= 2
    call f 1
  else
    string s two words endstring
    print s
  end
end
struct p x -1 y 2 endstruct
array a 2 7 8
float g 0.1
call f a
`
	if string(out) != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

func TestEmitterRoundTrip(t *testing.T) {
	sources := []string{
		"var a 15 var a_add -1 loop a > 10 add a a_add end end print a",
		"function f with x var a 10 print a end call f 10",
		"string e endstring float f 6.83 mul_f f f sqrt n abs n pow n m",
		"var x 1 if x != 1 else end",
		"function noop with end call noop",
	}

	for _, src := range sources {
		prog, err := parser.ParseString(src)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		first, err := emitter.Format(prog)
		if err != nil {
			t.Fatal(err)
		}

		reparsed, err := parser.ParseString(string(first))
		if err != nil {
			t.Fatalf("formatted source does not parse: %v\n%s", err, first)
		}
		second, err := emitter.Format(reparsed)
		if err != nil {
			t.Fatal(err)
		}
		if string(first) != string(second) {
			t.Errorf("formatting is not stable:\n%s\nvs\n%s", first, second)
		}
	}
}
