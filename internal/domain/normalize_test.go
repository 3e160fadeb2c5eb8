package domain

import "testing"

func TestNormalizeAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already normal", input: "alice", want: "alice"},
		{name: "mixed case", input: "AlIcE", want: "alice"},
		{name: "surrounding blanks", input: "  bob\n", want: "bob"},
		{name: "inner space run", input: "mary   jane", want: "mary jane"},
		{name: "tab between words", input: "mary\tjane", want: "mary jane"},
		{name: "mixed whitespace run", input: "Mary \t\n Jane", want: "mary jane"},
		{name: "slash kept for the store to escape", input: "Team/A", want: "team/a"},
		{name: "non-ascii folded", input: "ÉLODIE", want: "élodie"},
		{name: "blank", input: " \t ", want: ""},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeAccount(tt.input); got != tt.want {
				t.Errorf("NormalizeAccount(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAccount_VariantsShareKey(t *testing.T) {
	t.Parallel()

	want := NormalizeAccount("mary jane")
	for _, v := range []string{"Mary Jane", " MARY  JANE ", "mary\tjane", "Mary\n\nJane"} {
		if got := NormalizeAccount(v); got != want {
			t.Errorf("NormalizeAccount(%q) = %q, want %q", v, got, want)
		}
	}
}
