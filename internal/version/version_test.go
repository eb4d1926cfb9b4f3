package version

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Info
	}{
		{
			name:  "plus form",
			input: "1.2.3+45",
			want:  Info{Version: "1.2.3", BuildNumber: "45"},
		},
		{
			name:  "plus form with v prefix",
			input: "v1.2.3+45",
			want:  Info{Version: "1.2.3", BuildNumber: "45"},
		},
		{
			name:  "plus form with uppercase V prefix",
			input: "V1.2.3+45",
			want:  Info{Version: "1.2.3", BuildNumber: "45"},
		},
		{
			name:  "paren form",
			input: "1.2.3(45)",
			want:  Info{Version: "1.2.3", BuildNumber: "45"},
		},
		{
			name:  "paren form with v prefix",
			input: "v1.2.3(45)",
			want:  Info{Version: "1.2.3", BuildNumber: "45"},
		},
		{
			name:  "bare form",
			input: "1.2.3",
			want:  Info{Version: "1.2.3"},
		},
		{
			name:  "bare form with v prefix",
			input: "v10.20.30",
			want:  Info{Version: "10.20.30"},
		},
		{
			name:  "non-numeric build number",
			input: "1.2.3+rc.1",
			want:  Info{Version: "1.2.3", BuildNumber: "rc.1"},
		},
		{
			name:  "two-component version falls through",
			input: "1.2",
			want:  Info{Version: "1.2"},
		},
		{
			name:  "opaque string falls through",
			input: "nightly-2024-06-01",
			want:  Info{Version: "nightly-2024-06-01"},
		},
		{
			name:  "v prefix stripped even on fallback",
			input: "vNext",
			want:  Info{Version: "Next"},
		},
		{
			name:  "whitespace trimmed",
			input: "  1.2.3+7  ",
			want:  Info{Version: "1.2.3", BuildNumber: "7"},
		},
		{
			name:  "empty string",
			input: "",
			want:  Info{Version: ""},
		},
		{
			name:  "non-digit components fall through",
			input: "1.a.3",
			want:  Info{Version: "1.a.3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	pairs := []Info{
		{Version: "1.2.3"},
		{Version: "1.2.3", BuildNumber: "45"},
		{Version: "0.0.1", BuildNumber: "build.7"},
	}

	for _, p := range pairs {
		got := Parse(Format(p.Version, p.BuildNumber))
		if got != p {
			t.Errorf("Parse(Format(%+v)) = %+v, want input back", p, got)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format("1.2.3", "45"); got != "1.2.3+45" {
		t.Errorf("Format with build = %q, want 1.2.3+45", got)
	}
	if got := Format("1.2.3", ""); got != "1.2.3" {
		t.Errorf("Format without build = %q, want 1.2.3", got)
	}
}
