package value_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/agenthands/nscript/pkg/core/value"
)

func TestScalarFormatting(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"int", value.OfInt(-42), "-42"},
		{"float", value.OfFloat(6.83), "6.83"},
		{"whole float", value.OfFloat(10), "10"},
		{"large float", value.OfFloat(1e20), "100000000000000000000"},
		{"inf", value.OfFloat(float32(math.Inf(1))), "inf"},
		{"string", value.OfString("I am a string"), "I am a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestArrayLines(t *testing.T) {
	src := []int32{1, 2, 3}
	arr := value.NewArray(src)
	src[0] = 99 // the array owns its copy

	got := value.OfArray(arr).Lines("arr")
	want := []string{"arr[0] = 1", "arr[1] = 2", "arr[2] = 3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, ok := arr.At(3); ok {
		t.Errorf("expected out of range access to fail")
	}
}

func TestStructKeepsDeclarationOrder(t *testing.T) {
	s := value.NewStruct([]value.Field{
		{Name: "z", Value: 4},
		{Name: "x", Value: 2},
		{Name: "y", Value: 3},
		{Name: "x", Value: 7},
	})

	if s.Len() != 3 {
		t.Fatalf("expected 3 fields, got %d", s.Len())
	}
	if v, ok := s.Get("x"); !ok || v != 7 {
		t.Errorf("expected x = 7, got %d (%v)", v, ok)
	}

	got := value.OfStruct(s).Lines("point")
	want := []string{"point.z = 4", "point.x = 7", "point.y = 3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEmptyStruct(t *testing.T) {
	s := value.NewStruct(nil)
	if lines := value.OfStruct(s).Lines("empty"); len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}
