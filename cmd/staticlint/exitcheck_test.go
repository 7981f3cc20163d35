package main

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestNoExitInMain(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), NoExitInMain, "exitmain", "notmain")
}

func TestAnalyzersUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range analyzers() {
		if seen[a.Name] {
			t.Fatalf("analyzer %s registered twice", a.Name)
		}
		seen[a.Name] = true
	}
	if !seen[NoExitInMain.Name] {
		t.Fatal("custom analyzer is not registered")
	}
}
