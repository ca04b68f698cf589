package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// AABB Utility Function Tests
// =============================================================================

func TestAABBOverlaps(t *testing.T) {
	tests := []struct {
		name  string
		aabb1 AABB
		aabb2 AABB
		want  bool
	}{
		{
			name:  "Separated on X axis",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}},
			want:  false,
		},
		{
			name:  "Separated on Z axis (negative)",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{0, 0, -2}, Max: mgl64.Vec3{1, 1, -1}},
			want:  false,
		},
		{
			name:  "Overlapping",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}},
			aabb2: AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{3, 3, 3}},
			want:  true,
		},
		{
			name:  "Face touching",
			aabb1: AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
			aabb2: AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.aabb1.Overlaps(tt.aabb2); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// symmetry
			if got := tt.aabb2.Overlaps(tt.aabb1); got != tt.want {
				t.Errorf("Overlaps() symmetric = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	if !aabb.ContainsPoint(mgl64.Vec3{0, 0, 0}) {
		t.Error("center should be contained")
	}
	if !aabb.ContainsPoint(mgl64.Vec3{1, 1, 1}) {
		t.Error("corner should be contained")
	}
	if aabb.ContainsPoint(mgl64.Vec3{1.01, 0, 0}) {
		t.Error("point outside should not be contained")
	}
}

func TestAABBIntersectRay(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name string
		ray  Ray
		want bool
	}{
		{"straight through", NewRay(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{1, 0, 0}, 10), true},
		{"too short", NewRay(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{1, 0, 0}, 3), false},
		{"pointing away", NewRay(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{-1, 0, 0}, 10), false},
		{"parallel outside", NewRay(mgl64.Vec3{-5, 2, 0}, mgl64.Vec3{1, 0, 0}, 10), false},
		{"origin inside", NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, 0.1), true},
		{"diagonal", NewRay(mgl64.Vec3{-3, -3, -3}, mgl64.Vec3{1, 1, 1}, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aabb.IntersectRay(tt.ray); got != tt.want {
				t.Errorf("IntersectRay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRayBounds(t *testing.T) {
	ray := NewRay(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{-1, 0, 0}, 2)
	bounds := ray.Bounds()

	if !vec3AlmostEqual(bounds.Min, mgl64.Vec3{-1, 1, 1}, 1e-12) {
		t.Errorf("Min = %v, want (-1, 1, 1)", bounds.Min)
	}
	if !vec3AlmostEqual(bounds.Max, mgl64.Vec3{1, 1, 1}, 1e-12) {
		t.Errorf("Max = %v, want (1, 1, 1)", bounds.Max)
	}
}
