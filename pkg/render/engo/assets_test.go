package engo

import (
	"image/color"
	"testing"
)

func sameColor(got color.Color, want color.RGBA) bool {
	r, g, b, a := got.RGBA()
	wr, wg, wb, wa := want.RGBA()
	return r>>8 == wr>>8 && g>>8 == wg>>8 && b>>8 == wb>>8 && a>>8 == wa>>8
}

func TestNewAssetManager(t *testing.T) {
	am := NewAssetManager()

	if am.images == nil || am.sprites == nil {
		t.Fatal("maps not initialized")
	}
	if len(am.images) != 0 || len(am.sprites) != 0 {
		t.Error("manager should start empty")
	}
}

func TestAssetManager_BuildImages(t *testing.T) {
	am := NewAssetManager()
	am.BuildImages()

	tests := []struct {
		name          string
		width, height int
	}{
		{"player", carLength, carWidth},
		{"car-0", carLength, carWidth},
		{"car-3", carLength, carWidth},
		{"truck-1", truckLength, truckWidth},
		{"tree", treeSize, treeSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := am.Image(tt.name)
			if img == nil {
				t.Fatalf("image %q not built", tt.name)
			}
			if b := img.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, b.Dx(), b.Dy())
			}
		})
	}
}

func TestAssetManager_CarColors(t *testing.T) {
	am := NewAssetManager()
	am.BuildImages()

	for i, want := range VehicleColors {
		img := am.Image(carSpriteName(uint64(i)))
		// The nose is body colour on the centre line.
		if got := img.At(carLength-1, carWidth/2); !sameColor(got, want) {
			t.Errorf("car %d: expected body %v, got %v", i, want, got)
		}
	}

	player := am.Image("player")
	if got := player.At(carLength-1, carWidth/2); !sameColor(got, VehicleColors[0]) {
		t.Errorf("player should be painted %v, got %v", VehicleColors[0], got)
	}
	if got := player.At(carLength/3, carWidth/2); !sameColor(got, CabinColor) {
		t.Errorf("expected cabin colour in the middle, got %v", got)
	}
}

func TestAssetManager_TreeIsRound(t *testing.T) {
	am := NewAssetManager()
	am.BuildImages()
	img := am.Image("tree")

	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("tree corner should be transparent")
	}
	if got := img.At(treeSize/2, treeSize/2); !sameColor(got, TreeTrunkColor) {
		t.Errorf("expected trunk at the centre, got %v", got)
	}
	if got := img.At(treeSize/2, 2); !sameColor(got, TreeCrownColor) {
		t.Errorf("expected crown near the top edge, got %v", got)
	}
}

func TestAssetManager_SpriteBeforeLoad(t *testing.T) {
	am := NewAssetManager()

	for _, name := range []string{"player", "car-0", "unknown", ""} {
		if am.Sprite(name) != nil {
			t.Errorf("expected nil sprite for %q before loading", name)
		}
	}
}

func TestVehicleSprite(t *testing.T) {
	tests := []struct {
		kind     string
		id       uint64
		expected string
	}{
		{"player", 0, "player"},
		{"car", 1, "car-1"},
		{"car", 5, "car-1"},
		{"truck", 2, "truck-2"},
		{"truck", 4, "truck-0"},
		{"", 3, "car-3"},
	}

	for _, tt := range tests {
		if got := VehicleSprite(tt.kind, tt.id); got != tt.expected {
			t.Errorf("VehicleSprite(%q, %d) = %q, want %q", tt.kind, tt.id, got, tt.expected)
		}
	}
}

func TestVehicleSize(t *testing.T) {
	if l, w := VehicleSize("truck"); l != truckLength || w != truckWidth {
		t.Errorf("truck size %vx%v", l, w)
	}
	if l, w := VehicleSize("car"); l != carLength || w != carWidth {
		t.Errorf("car size %vx%v", l, w)
	}
}

func TestHexColor(t *testing.T) {
	got := hexColor(0xa52523)
	want := color.RGBA{R: 0xa5, G: 0x25, B: 0x23, A: 0xff}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}
