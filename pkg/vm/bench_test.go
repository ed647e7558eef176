package vm_test

import (
	"testing"

	"github.com/agenthands/nscript/pkg/compiler/parser"
	"github.com/agenthands/nscript/pkg/core/env"
	"github.com/agenthands/nscript/pkg/vm"
)

type discard struct{}

func (discard) WriteLine(string) error { return nil }

func BenchmarkVMLoop(b *testing.B) {
	prog, err := parser.ParseString("var i 0 var one 1 loop i < 1000 add i one end")
	if err != nil {
		b.Fatal(err)
	}

	m := vm.New(env.New(), discard{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Run(prog); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCall(b *testing.B) {
	prog, err := parser.ParseString(`
		var one 1
		function down n with if n > 0 sub n one call down n end end
		call down 100
	`)
	if err != nil {
		b.Fatal(err)
	}

	m := vm.New(env.New(), discard{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Run(prog); err != nil {
			b.Fatal(err)
		}
	}
}
