package parser

import (
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"main.go", LangGo},
		{"app.py", LangPython},
		{"index.ts", LangTypeScript},
		{"component.tsx", LangTSX},
		{"script.js", LangJavaScript},
		{"widget.jsx", LangTSX},
		{"Main.java", LangJava},
		{"worker.rb", LangRuby},
		{"styles.css", LangUnknown},
		{"README.md", LangUnknown},
	}

	for _, tt := range tests {
		if got := DetectLanguage(tt.path); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGetFunctionsPython(t *testing.T) {
	source := []byte(`
def handler(req):
    return req

class Service:
    def process(self):
        pass

    def _helper(self):
        pass
`)
	p := New()
	defer p.Close()

	result, err := p.Parse(source, LangPython, "app.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	funcs := GetFunctions(result)
	if len(funcs) != 3 {
		t.Fatalf("expected 3 functions, got %d", len(funcs))
	}
	if funcs[0].Name != "handler" {
		t.Errorf("first function = %q, want handler", funcs[0].Name)
	}
}

func TestGetClassesPython(t *testing.T) {
	source := []byte(`
class Service:
    def process(self):
        pass

    def cleanup(self):
        pass
`)
	p := New()
	defer p.Close()

	result, err := p.Parse(source, LangPython, "app.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	classes := GetClasses(result)
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(classes))
	}
	if classes[0].Name != "Service" {
		t.Errorf("class name = %q, want Service", classes[0].Name)
	}
	if len(classes[0].Methods) != 2 {
		t.Errorf("expected 2 methods, got %d", len(classes[0].Methods))
	}
}

func TestGetClassesGoReceiverMethods(t *testing.T) {
	source := []byte(`package main

type Server struct {
	addr string
}

func (s *Server) Start() error { return nil }

func (s *Server) Stop() {}

func standalone() {}
`)
	p := New()
	defer p.Close()

	result, err := p.Parse(source, LangGo, "main.go")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	classes := GetClasses(result)
	if len(classes) != 1 {
		t.Fatalf("expected 1 type, got %d", len(classes))
	}
	if classes[0].Name != "Server" {
		t.Errorf("type name = %q, want Server", classes[0].Name)
	}
	if len(classes[0].Methods) != 2 {
		t.Errorf("expected 2 receiver methods, got %d", len(classes[0].Methods))
	}
}

func TestGetImportsPython(t *testing.T) {
	source := []byte(`
import os
import utils.helpers
from models import user
from services.auth import login
`)
	p := New()
	defer p.Close()

	result, err := p.Parse(source, LangPython, "app.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	imports := GetImports(result)
	want := []string{"os", "utils.helpers", "models", "services.auth"}
	if len(imports) != len(want) {
		t.Fatalf("expected %d imports, got %d: %v", len(want), len(imports), imports)
	}
	for i, w := range want {
		if imports[i].Path != w {
			t.Errorf("import %d = %q, want %q", i, imports[i].Path, w)
		}
	}
}

func TestGetImportsJavaScript(t *testing.T) {
	source := []byte(`
import { api } from './api';
const db = require('./db');
`)
	p := New()
	defer p.Close()

	result, err := p.Parse(source, LangJavaScript, "index.js")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	imports := GetImports(result)
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %v", len(imports), imports)
	}
	if imports[0].Path != "./api" || imports[1].Path != "./db" {
		t.Errorf("unexpected import paths: %v", imports)
	}
}
