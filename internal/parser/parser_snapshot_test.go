package parser

import (
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestMain clears any snapshot no longer produced by a test run, the
// same go-snaps convention the teacher's interp fixture suite uses.
func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

// TestParseModuleSnapshots golden-tests the parsed AST's String() dump
// for a handful of representative programs, one snapshot per case, so
// a grammar or String() regression shows up as a diff instead of a
// silent behavior change.
func TestParseModuleSnapshots(t *testing.T) {
	cases := map[string]string{
		"generic_define_with_where": `define clamp<T: Ordered> where T != none = fn(a: T, b: T) -> T { a };`,
		"struct_with_overload": `
			define Vec = struct {
				x: flt64;
				y: flt64;
				fn +(other: Vec) -> Vec { self };
			};
		`,
		"static_for": `
			define unrolled = fn() -> none {
				static for item in items { print(item); }
			};
		`,
		"result_type_function": `define f = fn() -> Value ! Failure { ok(1) };`,
	}

	names := make([]string, 0, len(cases))
	for name := range cases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mod := mustParse(t, cases[name])
		var dump strings.Builder
		for _, stmt := range mod.Statements {
			dump.WriteString(stmt.String())
			dump.WriteString("\n")
		}
		snaps.MatchSnapshot(t, name, dump.String())
	}
}
