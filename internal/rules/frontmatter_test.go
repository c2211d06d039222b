// internal/rules/frontmatter_test.go
package rules

import "testing"

func TestSplitHeader(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantHeader string
		wantBody   string
	}{
		{
			name:       "header and body",
			content:    "---\nname: x\n---\n\nBody text\n",
			wantHeader: "\nname: x\n",
			wantBody:   "Body text",
		},
		{
			name:       "no delimiter",
			content:    "Just a message\n",
			wantHeader: "",
			wantBody:   "Just a message\n",
		},
		{
			name:       "leading whitespace before delimiter",
			content:    "\n---\nname: x\n---\nBody",
			wantHeader: "",
			wantBody:   "\n---\nname: x\n---\nBody",
		},
		{
			name:       "unterminated header",
			content:    "---\nname: x\n",
			wantHeader: "",
			wantBody:   "---\nname: x\n",
		},
		{
			name:       "empty header",
			content:    "------\nBody",
			wantHeader: "",
			wantBody:   "Body",
		},
		{
			name:       "empty body",
			content:    "---\nname: x\n---\n",
			wantHeader: "\nname: x\n",
			wantBody:   "",
		},
		{
			name:       "delimiter inside body is kept",
			content:    "---\nname: x\n---\nabove\n---\nbelow",
			wantHeader: "\nname: x\n",
			wantBody:   "above\n---\nbelow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body := SplitHeader(tt.content)
			if header != tt.wantHeader {
				t.Errorf("header = %q, want %q", header, tt.wantHeader)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
