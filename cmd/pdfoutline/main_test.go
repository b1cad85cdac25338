package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectEditArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"pdfoutline"},
			want: []string{"pdfoutline"},
		},
		{
			name: "pdf first token",
			in:   []string{"pdfoutline", "paper.pdf"},
			want: []string{"pdfoutline", "edit", "paper.pdf"},
		},
		{
			name: "upper case extension",
			in:   []string{"pdfoutline", "Paper.PDF", "--yes"},
			want: []string{"pdfoutline", "edit", "Paper.PDF", "--yes"},
		},
		{
			name: "pdf after value flag",
			in:   []string{"pdfoutline", "--config", "./cfg.yaml", "paper.pdf"},
			want: []string{"pdfoutline", "--config", "./cfg.yaml", "edit", "paper.pdf"},
		},
		{
			name: "pdf after equals flag",
			in:   []string{"pdfoutline", "--log-level=debug", "paper.pdf"},
			want: []string{"pdfoutline", "--log-level=debug", "edit", "paper.pdf"},
		},
		{
			name: "pdf after bool flag",
			in:   []string{"pdfoutline", "--pretty", "paper.pdf"},
			want: []string{"pdfoutline", "--pretty", "edit", "paper.pdf"},
		},
		{
			name: "pdf after double dash",
			in:   []string{"pdfoutline", "--", "paper.pdf"},
			want: []string{"pdfoutline", "edit", "--", "paper.pdf"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"pdfoutline", "show", "paper.pdf"},
			want: []string{"pdfoutline", "show", "paper.pdf"},
		},
		{
			name: "bare extension not rewritten",
			in:   []string{"pdfoutline", ".pdf"},
			want: []string{"pdfoutline", ".pdf"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"pdfoutline", "wat"},
			want: []string{"pdfoutline", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectEditArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectEditArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
