package cmds

import (
	"testing"
)

func TestExecutor(t *testing.T) {
	executor := NewExecutor()

	var n int
	executor.Define("-n", Func(func(value int) {
		n = value
	}))
	var verbose bool
	executor.Define("-v", Func(func() {
		verbose = true
	}))
	var path string
	executor.Define("run", Func(func(p string) error {
		path = p
		return nil
	}))

	if err := executor.Execute([]string{"-n", "42", "-v", "run", "prog.star"}); err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Fatalf("got %d", n)
	}
	if !verbose {
		t.Fatal("not set")
	}
	if path != "prog.star" {
		t.Fatalf("got %q", path)
	}
}

func TestExecutorUnknown(t *testing.T) {
	executor := NewExecutor()
	if err := executor.Execute([]string{"nope"}); err == nil {
		t.Fatal("should error")
	}
}

func TestExecutorOptionalArg(t *testing.T) {
	executor := NewExecutor()
	var got *int
	executor.Define("-opt", Func(func(value *int) {
		got = value
	}))
	if err := executor.Execute([]string{"-opt"}); err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestHelpers(t *testing.T) {
	executor := NewExecutor()

	var limit int
	executor.Define("-limit", Func(func(v int) {
		limit = v
	}))
	trace := false
	executor.Define("-trace", Func(func() {
		trace = true
	}))

	if err := executor.Execute([]string{"-limit", "7", "-trace"}); err != nil {
		t.Fatal(err)
	}
	if limit != 7 || !trace {
		t.Fatalf("got %d %v", limit, trace)
	}
}
