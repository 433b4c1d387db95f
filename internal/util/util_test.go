package util

import "testing"

func TestNormalizeRoomName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"computer farm alias", "The Computer Farm", "Computer Farm"},
		{"break room alias", "Open Break Area", "Break Room"},
		{"janitor alias", "Janitor", "Janitor's Closet"},
		{"canonical passes through", "Computer Farm", "Computer Farm"},
		{"unknown passes through", "Room 101", "Room 101"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeRoomName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeRoomName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTimerToSeconds(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"full timer", "9 : 35", 575, true},
		{"zero seconds", "10 : 0", 600, true},
		{"last minute", "0 : 59", 59, true},
		{"empty string", "", 0, false},
		{"malformed", "Mission Timer not initialized.", 0, false},
		{"missing seconds", "5 : ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TimerToSeconds(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("TimerToSeconds(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSubjectID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"short id", "23", "P000023"},
		{"single digit", "7", "P000007"},
		{"full width", "123456", "P123456"},
		{"over width untouched", "1234567", "P1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SubjectID(tt.input)
			if result != tt.expected {
				t.Errorf("SubjectID(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
