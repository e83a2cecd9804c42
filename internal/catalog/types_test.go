package catalog

import (
	"encoding/json"
	"testing"
)

func TestFormatID(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"string input", "12345", "12345"},
		{"flex string input", FlexString("abc"), "abc"},
		{"float64 input", float64(12345), "12345"},
		{"json.Number input", json.Number("12345"), "12345"},
		{"int input", 12345, "12345"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatID(tt.input)
			if result != tt.expected {
				t.Errorf("formatID(%v) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"abc"`, "abc"},
		{`123`, "123"},
		{`null`, ""},
		{`"Tom &amp; Jerry"`, "Tom &amp; Jerry"},
	}
	for _, tt := range tests {
		var f FlexString
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
		}
		if string(f) != tt.expected {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, f, tt.expected)
		}
	}
}

func TestFlexInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{`245`, 245},
		{`"245"`, 245},
		{`245.7`, 245},
		{`null`, 0},
		{`""`, 0},
		{`"N/A"`, 0},
	}
	for _, tt := range tests {
		var f FlexInt
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
		}
		if int(f) != tt.expected {
			t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, f, tt.expected)
		}
	}
}

func TestFlexBool_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`true`, true},
		{`"true"`, true},
		{`1`, true},
		{`false`, false},
		{`0`, false},
		{`null`, false},
	}
	for _, tt := range tests {
		var f FlexBool
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.input, err)
		}
		if bool(f) != tt.expected {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, f, tt.expected)
		}
	}
}

func TestFlexLinks_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "string format",
			input:    `"image.jpg"`,
			expected: []string{"image.jpg"},
		},
		{
			name:     "array with url",
			input:    `[{"quality":"50x50","url":"img1.jpg"},{"quality":"500x500","url":"img2.jpg"}]`,
			expected: []string{"img1.jpg", "img2.jpg"},
		},
		{
			name:     "array with link",
			input:    `[{"quality":"12kbps","link":"a.mp4"},{"quality":"320kbps","link":"b.mp4"}]`,
			expected: []string{"a.mp4", "b.mp4"},
		},
		{
			name:     "object format",
			input:    `{"url": "single.jpg"}`,
			expected: []string{"single.jpg"},
		},
		{
			name:     "empty entries dropped",
			input:    `[{"url":""},{"url":"x.jpg"}]`,
			expected: []string{"x.jpg"},
		},
		{
			name:     "empty string",
			input:    `""`,
			expected: nil,
		},
		{
			name:     "null",
			input:    `null`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var links FlexLinks
			if err := json.Unmarshal([]byte(tt.input), &links); err != nil {
				t.Fatalf("UnmarshalJSON failed: %v", err)
			}
			if len(links) != len(tt.expected) {
				t.Fatalf("UnmarshalJSON got %d elements, want %d", len(links), len(tt.expected))
			}
			for i := range links {
				if links[i].URL != tt.expected[i] {
					t.Errorf("links[%d] = %s, want %s", i, links[i].URL, tt.expected[i])
				}
			}
		})
	}
}

func TestFlexArtists_UnmarshalJSON(t *testing.T) {
	var structured FlexArtists
	if err := json.Unmarshal([]byte(`{"primary":[{"id":"1","name":"Arijit Singh"}],"featured":[],"all":[]}`), &structured); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(structured.Primary) != 1 || structured.Primary[0].Name != "Arijit Singh" {
		t.Errorf("Unexpected primary artists: %+v", structured.Primary)
	}

	var list FlexArtists
	if err := json.Unmarshal([]byte(`[{"id":2,"name":"Shreya Ghoshal"}]`), &list); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(list.Primary) != 1 || string(list.Primary[0].ID) != "2" {
		t.Errorf("Unexpected list artists: %+v", list.Primary)
	}
}

func TestDecodeHTML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Tum Hi Ho", "Tum Hi Ho"},
		{"Ae Dil Hai Mushkil &quot;Title&quot;", `Ae Dil Hai Mushkil "Title"`},
		{"Rock &amp; Roll", "Rock & Roll"},
		{"It&#039;s", "It's"},
	}
	for _, tt := range tests {
		if got := decodeHTML(tt.input); got != tt.expected {
			t.Errorf("decodeHTML(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSplitNames(t *testing.T) {
	got := splitNames("Arijit Singh, Pritam ,  ")
	if len(got) != 2 || got[0] != "Arijit Singh" || got[1] != "Pritam" {
		t.Errorf("Unexpected names: %v", got)
	}
	if splitNames("") != nil {
		t.Error("Expected nil for empty credit")
	}
}
