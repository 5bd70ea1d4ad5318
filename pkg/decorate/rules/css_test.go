package rules

import "testing"

func TestKeepDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"both", "color: red; background-color: blue", "color: red; background-color: blue;"},
		{"order follows props", "background-color:blue;color:red;", "color: red; background-color: blue;"},
		{"case insensitive property", "COLOR: Red", "color: Red;"},
		{"other properties dropped", "font-weight: bold; margin: 0", ""},
		{"malformed declarations", "color; : red; color:", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := keepDeclarations(tt.style, "color", "background-color"); got != tt.want {
				t.Errorf("keepDeclarations(%q) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestStyleAttr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag    string
		want   string
		wantOK bool
	}{
		{`<span style="color: red">`, "color: red", true},
		{`<span STYLE='color: red'>`, "color: red", true},
		{`<span style=color:red>`, "color:red", true},
		{`<span class="x">`, "", false},
	}

	for _, tt := range tests {
		got, ok := styleAttr(tt.tag)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("styleAttr(%q) = %q, %v; want %q, %v", tt.tag, got, ok, tt.want, tt.wantOK)
		}
	}
}
