package video

import (
	"errors"
	"testing"
)

func TestNewFrameDimensions(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr bool
	}{
		{"typical SD frame", 640, 480, false},
		{"small even frame", 2, 2, false},
		{"odd width", 7, 8, true},
		{"odd height", 8, 7, true},
		{"zero width", 0, 8, true},
		{"negative height", 8, -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := NewFrame(tt.width, tt.height)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewFrame(%d, %d) should fail", tt.width, tt.height)
				}
				if !errors.Is(err, ErrBadDimensions) {
					t.Errorf("error = %v, want ErrBadDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFrame(%d, %d) failed: %v", tt.width, tt.height, err)
			}
			if len(frame.Y) != tt.width*tt.height {
				t.Errorf("Y plane size = %d, want %d", len(frame.Y), tt.width*tt.height)
			}
			chroma := (tt.width / 2) * (tt.height / 2)
			if len(frame.U) != chroma || len(frame.V) != chroma {
				t.Errorf("chroma plane sizes = %d/%d, want %d", len(frame.U), len(frame.V), chroma)
			}
			if err := frame.Validate(); err != nil {
				t.Errorf("fresh frame should validate: %v", err)
			}
		})
	}
}

func TestFrameCloneIsDeep(t *testing.T) {
	frame, err := NewFrame(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	frame.Y[0] = 200

	clone := frame.Clone()
	clone.Y[0] = 50
	clone.U[0] = 50

	if frame.Y[0] != 200 {
		t.Error("mutating the clone changed the original Y plane")
	}
	if frame.U[0] != 0 {
		t.Error("mutating the clone changed the original U plane")
	}

	var nilFrame *Frame
	if nilFrame.Clone() != nil {
		t.Error("cloning a nil frame should yield nil")
	}
}

func TestFrameValidateCatchesShortPlanes(t *testing.T) {
	frame, err := NewFrame(8, 8)
	if err != nil {
		t.Fatal(err)
	}

	frame.Y = frame.Y[:10]
	if err := frame.Validate(); !errors.Is(err, ErrPlaneSize) {
		t.Errorf("short Y plane: error = %v, want ErrPlaneSize", err)
	}

	var nilFrame *Frame
	if err := nilFrame.Validate(); !errors.Is(err, ErrNilFrame) {
		t.Errorf("nil frame: error = %v, want ErrNilFrame", err)
	}
}
