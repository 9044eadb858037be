// Package driver orchestrates a single compilation: it owns file
// resolution (parsing each file `import(...)` reaches, recursively,
// with a cache keyed by absolute path), wires that cache into the
// elaborator and evaluator of every file involved, and recovers the
// errors.Fatal panic every pass uses to halt on its first diagnostic
// (spec §6, §7). The elaborator and evaluator intentionally know
// nothing about the filesystem; this package is the one place that
// does.
//
// Grounded on the teacher's cmd/dwscript/cmd/compile.go and run.go
// control flow (read file, lex, parse, check, run, report), trimmed of
// the unit/OOP/bytecode-specific stages this spec has no equivalent
// for.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/elaborator"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/evaluator"
	"github.com/corelang/corec/internal/parser"
	"github.com/corelang/corec/internal/value"
)

// File is one parsed, elaborated, and evaluated compilation unit —
// either the entry file or one reached transitively through import().
type File struct {
	Path       string
	Source     string
	Module     *ast.Module
	Elaborator *elaborator.Elaborator
	Evaluator  *evaluator.Evaluator
	Env        *evaluator.Env

	elabModuleValue *value.Value // ModuleScope = *elaborator.Scope, for importers' elaborators
	evalModuleValue *value.Value // ModuleScope = *evaluator.Env, for importers' evaluators
}

// compilation tracks every file visited during one Compile call, so a
// file imported from two different places is parsed and elaborated
// exactly once (spec §4.4.8, §8 scenario 5).
type compilation struct {
	files map[string]*File // absolute path -> result
}

// Compile parses, elaborates, and evaluates the module-level globals
// and defines of path and everything it imports, returning the entry
// file ready for `run{}` blocks to already have executed and for a CLI
// command to inspect further. Any fatal diagnostic raised anywhere in
// the graph is returned as a plain error carrying Format()'s rendered
// text.
func Compile(path string) (file *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(errors.Fatal); ok {
				err = fmt.Errorf("%s", f.Format())
				return
			}
			panic(r)
		}
	}()

	absPath, absErr := filepath.Abs(path)
	if absErr != nil {
		return nil, absErr
	}
	c := &compilation{files: map[string]*File{}}
	return c.compileFile(absPath)
}

func (c *compilation) compileFile(absPath string) (*File, error) {
	if f, ok := c.files[absPath]; ok {
		return f, nil
	}

	source, mod, diags, err := parser.ParseFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", absPath, err)
	}
	if len(diags) > 0 {
		return nil, fmt.Errorf("%s", diags[0].Format())
	}

	elab := elaborator.New(source, absPath)
	ev := evaluator.New(elab.TypeOf, source)
	env := evaluator.NewEnv(nil)

	f := &File{Path: absPath, Source: source, Module: mod, Elaborator: elab, Evaluator: ev, Env: env}
	// Registered before elaboration so a cycle (A imports B imports A)
	// resolves to the in-progress file instead of recursing forever;
	// such a cycle will still see an incompletely-populated module, but
	// that is a user error this driver does not need to diagnose
	// specially.
	c.files[absPath] = f
	f.elabModuleValue = value.NewModule(absPath, elab.ModuleScope())
	f.evalModuleValue = value.NewModule(absPath, env)

	importValues := map[string]*value.Value{}
	for _, lit := range collectImportLiterals(mod) {
		importPath, perr := resolveImportPath(lit, filepath.Dir(absPath))
		if perr != nil {
			return nil, perr
		}
		imported, ierr := c.compileFile(importPath)
		if ierr != nil {
			return nil, ierr
		}
		elab.RegisterImport(lit, imported.elabModuleValue)
		importValues[lit] = imported.evalModuleValue
	}
	ev.ImportValue = func(p string) *value.Value { return importValues[p] }
	ev.EmbedExpr = elab.EmbedExpr

	elab.ElaborateModule(mod)
	ev.EvalModule(mod, env)

	return f, nil
}

// collectImportLiterals walks mod's statements looking for
// `import("...")` calls with a string-literal argument — the only form
// spec §4.4.8 supports — and returns the literal path text exactly as
// written, in source order, so repeated imports of the same literal
// are only resolved once per file.
func collectImportLiterals(mod *ast.Module) []string {
	seen := map[string]bool{}
	var lits []string
	var walkExpr func(ast.Expression)
	var walkStmt func(ast.Statement)

	record := func(n *ast.Call) {
		internal, ok := n.Callee.(*ast.Internal)
		if !ok || internal.Name != "import" || len(n.Args) != 1 {
			return
		}
		lit, ok := n.Args[0].(*ast.StringLit)
		if !ok || seen[lit.Raw] {
			return
		}
		seen[lit.Raw] = true
		lits = append(lits, lit.Raw)
	}

	walkExpr = func(e ast.Expression) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.Call:
			record(n)
			walkExpr(n.Callee)
			for _, a := range n.Args {
				walkExpr(a)
			}
		case *ast.CallMethod:
			walkExpr(n.Receiver)
			for _, a := range n.Args {
				walkExpr(a)
			}
		case *ast.Unary:
			walkExpr(n.Operand)
		case *ast.BinaryOp:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.Reference:
			walkExpr(n.Value)
		case *ast.Dereference:
			walkExpr(n.Value)
		case *ast.Deoptional:
			walkExpr(n.Value)
		case *ast.Range:
			walkExpr(n.Low)
			walkExpr(n.High)
		case *ast.Is:
			walkExpr(n.Value)
		case *ast.Cast:
			walkExpr(n.Value)
		case *ast.ArrayAccess:
			walkExpr(n.Left)
			walkExpr(n.Index)
		case *ast.Slice:
			walkExpr(n.Left)
			walkExpr(n.Low)
			walkExpr(n.High)
		case *ast.StructureAccess:
			walkExpr(n.Value)
		case *ast.Structure:
			for _, init := range n.Fields {
				walkExpr(init.Value)
			}
		case *ast.Block:
			for _, s := range n.Statements {
				walkStmt(s)
			}
		case *ast.If:
			walkExpr(n.Cond)
			walkExpr(n.Then)
			walkExpr(n.Else)
		case *ast.While:
			walkExpr(n.Cond)
			walkExpr(n.Body)
			walkExpr(n.Else)
		case *ast.For:
			for _, it := range n.Items {
				walkExpr(it)
			}
			walkExpr(n.Body)
			walkExpr(n.Else)
		case *ast.Switch:
			walkExpr(n.Cond)
			for _, cs := range n.Cases {
				for _, v := range cs.Values {
					walkExpr(v)
				}
				walkExpr(cs.Body)
			}
		case *ast.Catch:
			walkExpr(n.Value)
			walkExpr(n.Body)
		case *ast.Run:
			walkExpr(n.Body)
		case *ast.Function:
			walkExpr(n.Body)
		}
	}

	walkStmt = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.ExprStatement:
			walkExpr(n.Value)
		case *ast.Assignment:
			walkExpr(n.Target)
			walkExpr(n.Value)
		case *ast.Return:
			walkExpr(n.Value)
		case *ast.Break:
			walkExpr(n.Value)
		case *ast.Defer:
			walkExpr(n.Body)
		case *ast.Run:
			walkExpr(n.Body)
		case *ast.Variable:
			walkExpr(n.Value)
		case *ast.Global:
			walkExpr(n.Value)
		case *ast.Define:
			walkExpr(n.Value)
		}
	}

	for _, s := range mod.Statements {
		walkStmt(s)
	}
	return lits
}

// resolveImportPath implements spec §4.4.8's two resolution rules:
// `import("core")` names the prelude-adjacent standard module at
// `<cwd>/core/core.lang`; every other literal is resolved relative to
// the importing file's directory.
func resolveImportPath(lit, importerDir string) (string, error) {
	if lit == "core" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(cwd, "core", "core.lang"), nil
	}
	p := lit
	if !strings.HasSuffix(p, ".lang") {
		p += ".lang"
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(importerDir, p), nil
}
