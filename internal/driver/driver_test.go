package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corelang/corec/internal/value"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// TestImportCachePointerEquality covers the "two import sites for the
// same absolute path receive pointer-equal module values" scenario.
func TestImportCachePointerEquality(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.lang", `define answer = 42;`)
	mainPath := writeFile(t, dir, "main.lang", `
		define a = import("lib");
		define b = import("lib");
	`)

	f, err := Compile(mainPath)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	a, ok := f.Env.Get("a")
	if !ok {
		t.Fatalf("define 'a' not found in module env")
	}
	b, ok := f.Env.Get("b")
	if !ok {
		t.Fatalf("define 'b' not found in module env")
	}
	if a != b {
		t.Errorf("import(\"lib\") at two call sites returned distinct module values, want pointer-equal")
	}
	if a.Kind != value.KindModule {
		t.Fatalf("import result kind = %v, want KindModule", a.Kind)
	}
}

// TestImportQualifiedAccess covers reading an imported module's
// exported define through dotted access, end to end.
func TestImportQualifiedAccess(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.lang", `define answer = 42;`)
	mainPath := writeFile(t, dir, "main.lang", `
		define lib = import("lib");
		global result: int = lib.answer;
	`)

	f, err := Compile(mainPath)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	result, ok := f.Env.Get("result")
	if !ok {
		t.Fatalf("global 'result' not found")
	}
	if result.Kind != value.KindInteger || result.IntVal != 42 {
		t.Errorf("result = %#v, want integer 42", result)
	}
}

// TestRunEntryPoint covers the CLI `run` command's convention: module
// globals/defines and run{} blocks execute first, then the "main"
// define (if present) is invoked with no arguments.
func TestRunEntryPoint(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFile(t, dir, "main.lang", `
		global counter: int = 0;
		run {
			counter = 1;
		}
		define main = fn() -> int {
			counter = counter + 41;
			counter
		};
	`)

	f, err := Compile(mainPath)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	before, ok := f.Env.Get("counter")
	if !ok || before.IntVal != 1 {
		t.Fatalf("counter after run{} = %#v, want 1", before)
	}

	entry, ok := f.Env.Get("main")
	if !ok || entry.Kind != value.KindFunction {
		t.Fatalf("entry 'main' = %#v, want a function", entry)
	}
	result := f.Evaluator.Call(entry, nil)
	if result.Kind != value.KindInteger || result.IntVal != 42 {
		t.Errorf("main() = %#v, want integer 42", result)
	}
}

// TestCompileFailureReturnsFormattedError covers the driver's contract
// of converting an errors.Fatal panic into a plain, pre-formatted error
// rather than letting it escape as a panic.
func TestCompileFailureReturnsFormattedError(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFile(t, dir, "main.lang", `define x = unresolved_name;`)

	_, err := Compile(mainPath)
	if err == nil {
		t.Fatalf("expected Compile to fail on an unresolved identifier")
	}
}
