package eval

import (
	"os"
	"path/filepath"

	"github.com/HazenBabcock/opensdraw/internal/ast"
	"github.com/HazenBabcock/opensdraw/internal/env"
	"github.com/HazenBabcock/opensdraw/internal/lcaderr"
	"github.com/HazenBabcock/opensdraw/internal/sema"
	"github.com/HazenBabcock/opensdraw/internal/value"
)

// evalImport implements spec.md section 4.4's `(import MOD [:local])`:
// locate MOD.lcad, parse and pre-pass it in a fresh scope rooted at
// the built-in scope, evaluate its top-level definitions there, then
// install each as `MOD:name` (or, with :local, the bare name) in the
// scope enclosing this call — the same "visible to siblings" scope
// `def` installs into (spec.md section 4.2).
func evalImport(ev *Evaluator, expr *ast.Expression, scope *env.Scope) (value.Value, error) {
	args := expr.Children[1:]
	if len(args) < 1 || len(args) > 2 {
		return nil, lcaderr.ArityError(loc(expr.Pos()), "import", "1 to 2", len(args))
	}
	modSym, ok := args[0].(*ast.Symbol)
	if !ok || modSym.Keyword {
		return nil, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "import requires a bare module name, not an evaluated expression")
	}
	local := false
	if len(args) == 2 {
		flag, ok := args[1].(*ast.Symbol)
		if !ok || !flag.Keyword || flag.Name != "local" {
			return nil, lcaderr.New(lcaderr.SyntaxError, loc(expr.Pos()), "import's second argument must be :local")
		}
		local = true
	}

	path, source, err := ev.resolveImport(modSym.Name, expr.Pos().File)
	if err != nil {
		return nil, err
	}

	moduleScope, alreadyLoaded := ev.importedFiles[path]
	if !alreadyLoaded {
		moduleRoot, err := parseFile(source, path)
		if err != nil {
			return nil, err
		}
		moduleScope = env.NewChild(ev.Root)
		if _, err := ev.evaluateParsed(moduleRoot, moduleScope); err != nil {
			return nil, err
		}
		// The pre-pass installs top-level defs in the module's own
		// top-level expression scope, a child of moduleScope.
		moduleScope = moduleRoot.Scope()
		ev.importedFiles[path] = moduleScope
	}

	parentScope := scope.Parent
	if parentScope == nil {
		parentScope = scope
	}
	w := &sema.Warnings{}
	for _, name := range moduleScope.Names() {
		cell, _ := moduleScope.LookupLocal(name)
		target := name
		if !local {
			target = modSym.Name + ":" + name
		}
		if err := sema.CheckOverride(parentScope, target, expr.Pos(), path, w); err != nil {
			return nil, err
		}
		parentScope.Define(target, cell)
	}
	ev.Warnings = append(ev.Warnings, w.Messages...)
	return value.Nil, nil
}

// resolveImport implements spec.md section 6's import search order:
// (a) the directory of the currently evaluating file, (b) a
// configured library root, both with ".lcad" assumed.
func (ev *Evaluator) resolveImport(modName, fromFile string) (path string, source string, err error) {
	candidates := make([]string, 0, 2)
	if fromFile != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(fromFile), modName+".lcad"))
	}
	if ev.libraryRoot != "" {
		candidates = append(candidates, filepath.Join(ev.libraryRoot, modName+".lcad"))
	}
	var lastErr error
	for _, candidate := range candidates {
		data, readErr := os.ReadFile(candidate)
		if readErr == nil {
			return candidate, string(data), nil
		}
		lastErr = readErr
	}
	if lastErr == nil {
		lastErr = os.ErrNotExist
	}
	return "", "", lcaderr.Wrap(lastErr, lcaderr.FileNotFound, lcaderr.Location{File: fromFile}, "cannot find module "+modName)
}
