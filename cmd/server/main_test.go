package main

import "testing"

func TestIsWeakSecret(t *testing.T) {
	if !isWeakSecret("short") {
		t.Fatalf("short secret should be weak")
	}
	if !isWeakSecret("change-me-in-production-change-me-please") {
		t.Fatalf("placeholder secret should be weak")
	}
	if isWeakSecret("9f8e7d6c5b4a39281706f5e4d3c2b1a0zyxwvuts") {
		t.Fatalf("long random secret should pass")
	}
}
