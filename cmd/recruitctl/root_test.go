package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()
	for _, path := range [][]string{
		{"migrate"},
		{"create-admin"},
		{"set-password"},
		{"stages", "list"},
		{"stages", "seed"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if cmd.Name() != path[len(path)-1] {
			t.Fatalf("find %v resolved to %s", path, cmd.Name())
		}
	}
}

func TestRootHelpSkipsConfig(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "stages") {
		t.Fatalf("help output missing stages command: %q", out.String())
	}
}

func TestCreateAdminRequiresFlags(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"create-admin", "--email", "admin@example.com"})
	root.SetOut(&bytes.Buffer{})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "--password") {
		t.Fatalf("expected missing password error, got %v", err)
	}
}
