package main

import (
	"go/ast"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const doc = `signlint checks for forbidden calls and imports

This analyzer reports:
1. Usage of panic()
2. Calls to log.Fatal*() or os.Exit() outside main function of main package
3. Imports of crypto/sha1 outside the internal/signer package`

const signerPkgSuffix = "internal/signer"

var Analyzer = &analysis.Analyzer{
	Name:     "signlint",
	Doc:      doc,
	Run:      run,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func run(pass *analysis.Pass) (interface{}, error) {
	checkImports(pass)

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.FuncDecl)(nil),
		(*ast.CallExpr)(nil),
	}

	var inMain *ast.FuncDecl
	insp.Nodes(nodeFilter, func(node ast.Node, push bool) bool {
		if fn, ok := node.(*ast.FuncDecl); ok {
			if push && pass.Pkg.Name() == "main" && fn.Recv == nil && fn.Name.Name == "main" {
				inMain = fn
			} else if !push && inMain == fn {
				inMain = nil
			}
			return true
		}
		if !push {
			return true
		}

		call := node.(*ast.CallExpr)

		if isBuiltin(pass, call.Fun, "panic") {
			pass.Reportf(call.Pos(), "panic() should not be used, return an error instead")
			return true
		}

		pkgPath, name, ok := calledFunc(pass, call)
		if !ok || inMain != nil {
			return true
		}

		switch {
		case pkgPath == "os" && name == "Exit":
			pass.Reportf(call.Pos(), "os.Exit() should only be called from main function in main package")
		case pkgPath == "log" && strings.HasPrefix(name, "Fatal"):
			pass.Reportf(call.Pos(), "log.%s() should only be called from main function in main package", name)
		}
		return true
	})

	return nil, nil
}

func checkImports(pass *analysis.Pass) {
	path := pass.Pkg.Path()
	if path == signerPkgSuffix || strings.HasSuffix(path, "/"+signerPkgSuffix) {
		return
	}

	for _, file := range pass.Files {
		for _, spec := range file.Imports {
			importPath, err := strconv.Unquote(spec.Path.Value)
			if err == nil && importPath == "crypto/sha1" {
				pass.Reportf(spec.Pos(), "crypto/sha1 should only be imported by the signer package")
			}
		}
	}
}

func isBuiltin(pass *analysis.Pass, expr ast.Expr, name string) bool {
	ident, ok := expr.(*ast.Ident)
	if !ok || ident.Name != name {
		return false
	}
	_, builtin := pass.TypesInfo.Uses[ident].(*types.Builtin)
	return builtin
}

// calledFunc возвращает пакет и имя функции для вызова вида pkg.Func().
func calledFunc(pass *analysis.Pass, call *ast.CallExpr) (string, string, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", "", false
	}
	ident, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", "", false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return "", "", false
	}
	return pkgName.Imported().Path(), sel.Sel.Name, true
}
