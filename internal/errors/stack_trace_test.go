package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/argon/ast"
)

func TestStackFrame_String(t *testing.T) {
	tests := []struct {
		name     string
		frame    StackFrame
		expected string
	}{
		{
			name: "Frame with position",
			frame: StackFrame{
				FunctionName: "myFunction",
				FileName:     "test.js",
				Position:     &ast.Position{Line: 10, Column: 5},
			},
			expected: "at myFunction (test.js:10:5)",
		},
		{
			name: "Frame without position",
			frame: StackFrame{
				FunctionName: "myFunction",
				FileName:     "test.js",
				Position:     nil,
			},
			expected: "at myFunction",
		},
		{
			name: "Frame with method name",
			frame: StackFrame{
				FunctionName: "MyClass.myMethod",
				FileName:     "test.js",
				Position:     &ast.Position{Line: 42, Column: 15},
			},
			expected: "at MyClass.myMethod (test.js:42:15)",
		},
		{
			name: "Frame with no function name falls back to anonymous",
			frame: StackFrame{
				FunctionName: "",
				FileName:     "test.js",
				Position:     &ast.Position{Line: 7, Column: 1},
			},
			expected: "at <anonymous> (test.js:7:1)",
		},
		{
			name: "Frame with position but no file name",
			frame: StackFrame{
				FunctionName: "main",
				FileName:     "",
				Position:     &ast.Position{Line: 1, Column: 1},
			},
			expected: "at main (<script>:1:1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.frame.String()
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestStackTrace_String(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		trace    StackTrace
	}{
		{
			name:     "Empty stack trace",
			trace:    StackTrace{},
			expected: "",
		},
		{
			name: "Single frame",
			trace: StackTrace{
				{FunctionName: "main", Position: &ast.Position{Line: 1, Column: 1}},
			},
			expected: "at main (<script>:1:1)",
		},
		{
			name: "Multiple frames",
			trace: StackTrace{
				{FunctionName: "main", Position: &ast.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Position: &ast.Position{Line: 15, Column: 5}},
				{FunctionName: "bar", Position: &ast.Position{Line: 10, Column: 3}},
			},
			expected: "at bar (<script>:10:3)\nat foo (<script>:15:5)\nat main (<script>:20:1)",
		},
		{
			name: "Frames with and without position",
			trace: StackTrace{
				{FunctionName: "main", Position: &ast.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Position: nil},
			},
			expected: "at foo\nat main (<script>:20:1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.trace.String()
			if result != tt.expected {
				t.Errorf("Expected:\n%s\nGot:\n%s", tt.expected, result)
			}
		})
	}
}

func TestStackTrace_Reverse(t *testing.T) {
	original := StackTrace{
		{FunctionName: "First", Position: &ast.Position{Line: 1, Column: 1}},
		{FunctionName: "Second", Position: &ast.Position{Line: 2, Column: 1}},
		{FunctionName: "Third", Position: &ast.Position{Line: 3, Column: 1}},
	}

	reversed := original.Reverse()

	if reversed[0].FunctionName != "Third" {
		t.Errorf("Expected first frame to be 'Third', got %q", reversed[0].FunctionName)
	}
	if reversed[1].FunctionName != "Second" {
		t.Errorf("Expected second frame to be 'Second', got %q", reversed[1].FunctionName)
	}
	if reversed[2].FunctionName != "First" {
		t.Errorf("Expected third frame to be 'First', got %q", reversed[2].FunctionName)
	}

	if original[0].FunctionName != "First" {
		t.Errorf("Original stack trace was modified")
	}
}

func TestStackTrace_Top(t *testing.T) {
	tests := []struct {
		expected *string
		name     string
		trace    StackTrace
	}{
		{
			name:     "Empty stack",
			trace:    StackTrace{},
			expected: nil,
		},
		{
			name: "Single frame",
			trace: StackTrace{
				{FunctionName: "main", Position: &ast.Position{Line: 1, Column: 1}},
			},
			expected: stringPtr("main"),
		},
		{
			name: "Multiple frames",
			trace: StackTrace{
				{FunctionName: "main", Position: &ast.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Position: &ast.Position{Line: 15, Column: 5}},
				{FunctionName: "bar", Position: &ast.Position{Line: 10, Column: 3}},
			},
			expected: stringPtr("bar"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := tt.trace.Top()
			if tt.expected == nil {
				if top != nil {
					t.Errorf("Expected nil, got %v", top)
				}
			} else {
				if top == nil {
					t.Errorf("Expected %q, got nil", *tt.expected)
				} else if top.FunctionName != *tt.expected {
					t.Errorf("Expected %q, got %q", *tt.expected, top.FunctionName)
				}
			}
		})
	}
}

func TestStackTrace_Bottom(t *testing.T) {
	tests := []struct {
		expected *string
		name     string
		trace    StackTrace
	}{
		{
			name:     "Empty stack",
			trace:    StackTrace{},
			expected: nil,
		},
		{
			name: "Single frame",
			trace: StackTrace{
				{FunctionName: "main", Position: &ast.Position{Line: 1, Column: 1}},
			},
			expected: stringPtr("main"),
		},
		{
			name: "Multiple frames",
			trace: StackTrace{
				{FunctionName: "main", Position: &ast.Position{Line: 20, Column: 1}},
				{FunctionName: "foo", Position: &ast.Position{Line: 15, Column: 5}},
				{FunctionName: "bar", Position: &ast.Position{Line: 10, Column: 3}},
			},
			expected: stringPtr("main"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bottom := tt.trace.Bottom()
			if tt.expected == nil {
				if bottom != nil {
					t.Errorf("Expected nil, got %v", bottom)
				}
			} else {
				if bottom == nil {
					t.Errorf("Expected %q, got nil", *tt.expected)
				} else if bottom.FunctionName != *tt.expected {
					t.Errorf("Expected %q, got %q", *tt.expected, bottom.FunctionName)
				}
			}
		})
	}
}

func TestStackTrace_Depth(t *testing.T) {
	tests := []struct {
		name     string
		trace    StackTrace
		expected int
	}{
		{
			name:     "Empty stack",
			trace:    StackTrace{},
			expected: 0,
		},
		{
			name: "Single frame",
			trace: StackTrace{
				{FunctionName: "main"},
			},
			expected: 1,
		},
		{
			name: "Multiple frames",
			trace: StackTrace{
				{FunctionName: "main"},
				{FunctionName: "foo"},
				{FunctionName: "bar"},
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depth := tt.trace.Depth()
			if depth != tt.expected {
				t.Errorf("Expected depth %d, got %d", tt.expected, depth)
			}
		})
	}
}

func TestNewStackFrame(t *testing.T) {
	pos := &ast.Position{Line: 42, Column: 13}
	frame := NewStackFrame("testFunc", "test.js", pos)

	if frame.FunctionName != "testFunc" {
		t.Errorf("Expected FunctionName 'testFunc', got %q", frame.FunctionName)
	}
	if frame.FileName != "test.js" {
		t.Errorf("Expected FileName 'test.js', got %q", frame.FileName)
	}
	if frame.Position != pos {
		t.Errorf("Expected position %v, got %v", pos, frame.Position)
	}
}

func TestNewStackTrace(t *testing.T) {
	trace := NewStackTrace()

	if trace == nil {
		t.Error("NewStackTrace returned nil")
	}
	if len(trace) != 0 {
		t.Errorf("Expected empty stack trace, got length %d", len(trace))
	}
}

func TestStackTrace_RealWorldScenario(t *testing.T) {
	// Simulate a call stack: main -> processData -> validateInput
	trace := StackTrace{
		{FunctionName: "main", FileName: "main.js", Position: &ast.Position{Line: 50, Column: 1}},
		{FunctionName: "processData", FileName: "main.js", Position: &ast.Position{Line: 30, Column: 5}},
		{FunctionName: "validateInput", FileName: "main.js", Position: &ast.Position{Line: 10, Column: 3}},
	}

	expected := "at validateInput (main.js:10:3)\nat processData (main.js:30:5)\nat main (main.js:50:1)"
	result := trace.String()
	if result != expected {
		t.Errorf("Stack trace string doesn't match.\nExpected:\n%s\nGot:\n%s", expected, result)
	}

	if trace.Depth() != 3 {
		t.Errorf("Expected depth 3, got %d", trace.Depth())
	}

	top := trace.Top()
	if top == nil || top.FunctionName != "validateInput" {
		t.Errorf("Expected top to be validateInput, got %v", top)
	}

	bottom := trace.Bottom()
	if bottom == nil || bottom.FunctionName != "main" {
		t.Errorf("Expected bottom to be main, got %v", bottom)
	}
}

func TestStackTrace_StringFormatMatchesV8(t *testing.T) {
	trace := StackTrace{
		{FunctionName: "callsABomb", FileName: "app.js", Position: &ast.Position{Line: 8, Column: 4}},
		{FunctionName: "thisOneBombs", FileName: "app.js", Position: &ast.Position{Line: 3, Column: 20}},
	}

	result := trace.String()
	lines := strings.Split(result, "\n")

	if lines[0] != "at thisOneBombs (app.js:3:20)" {
		t.Errorf("First line doesn't match expected format: %q", lines[0])
	}
	if lines[1] != "at callsABomb (app.js:8:4)" {
		t.Errorf("Second line doesn't match expected format: %q", lines[1])
	}
}

// Helper function for tests
func stringPtr(s string) *string {
	return &s
}
