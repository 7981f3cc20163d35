package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// forbiddenExits функции, завершающие процесс в обход отложенных вызовов и graceful shutdown.
//
//nolint:gochecknoglobals
var forbiddenExits = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

// NoExitInMain запрещает os.Exit и log.Fatal* в функции main пакета main.
// Вызовы распознаются по типам, поэтому импорт под другим именем не помогает их спрятать.
//
//nolint:gochecknoglobals
var NoExitInMain = &analysis.Analyzer{
	Name:     "noexitinmain",
	Doc:      "forbid os.Exit and log.Fatal calls in the main function of package main",
	Run:      runNoExitInMain,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func runNoExitInMain(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil //nolint:nilnil
	}
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector) //nolint:errcheck

	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fn := n.(*ast.FuncDecl) //nolint:errcheck
		if fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
			return
		}
		// Файлы из кеша сборки, например сгенерированный main тестов.
		if strings.Contains(pass.Fset.Position(fn.Pos()).Filename, "go-build") {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			obj, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
			if !ok || obj.Pkg() == nil {
				return true
			}
			if forbiddenExits[obj.Pkg().Path()][obj.Name()] {
				pass.Reportf(call.Pos(), "direct call %s.%s is not allowed in main function",
					obj.Pkg().Name(), obj.Name())
			}
			return true
		})
	})
	return nil, nil //nolint:nilnil
}
