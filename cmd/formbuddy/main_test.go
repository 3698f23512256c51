package main

import (
	"reflect"
	"testing"
)

const id = "0b6a4c0e-2f0e-4d7e-9d43-6f1f4b7d2a11"

func TestRewriteTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no args", []string{"formbuddy"}, []string{"formbuddy"}},
		{"id first", []string{"formbuddy", id}, []string{"formbuddy", "tasks", "show", id}},
		{"id after value flag", []string{"formbuddy", "--dir", "./data", id}, []string{"formbuddy", "--dir", "./data", "tasks", "show", id}},
		{"id after equals flag", []string{"formbuddy", "--format=edn", id}, []string{"formbuddy", "--format=edn", "tasks", "show", id}},
		{"id after bool flag", []string{"formbuddy", "--pretty", id}, []string{"formbuddy", "--pretty", "tasks", "show", id}},
		{"id after double dash", []string{"formbuddy", "--", id}, []string{"formbuddy", "--", "tasks", "show", id}},
		{"subcommand untouched", []string{"formbuddy", "tasks", "show", id}, []string{"formbuddy", "tasks", "show", id}},
		{"value flag that looks like an id", []string{"formbuddy", "--dir", id}, []string{"formbuddy", "--dir", id}},
		{"not an id", []string{"formbuddy", "wat"}, []string{"formbuddy", "wat"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := rewriteTaskLookupArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v; want %v", got, tt.want)
			}
		})
	}
}
