package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/prism-go/engine/renderer"
)

// encodeChecker produces PNG bytes for a width x height checkerboard with the
// given cell size, alternating white and dark gray.
func encodeChecker(t *testing.T, width, height, cell int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 40, G: 40, B: 40, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode checker image: %v", err)
	}
	return buf.Bytes()
}

func TestLoadDecodesCheckerTexture(t *testing.T) {
	data := encodeChecker(t, 8, 8, 2)

	res, err := Load(data, WithName("checker"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Name() != "checker" {
		t.Errorf("Name() = %q, want %q", res.Name(), "checker")
	}

	staging := res.Staging()
	if staging.Width != 8 || staging.Height != 8 {
		t.Errorf("staging dimensions = %dx%d, want 8x8", staging.Width, staging.Height)
	}
	if len(staging.Pixels) != 8*8*4 {
		t.Errorf("pixel byte length = %d, want %d", len(staging.Pixels), 8*8*4)
	}
	// Top-left cell is white, cell at (2,0) is dark.
	if staging.Pixels[0] != 255 || staging.Pixels[3] != 255 {
		t.Errorf("pixel (0,0) = %v, want white opaque", staging.Pixels[0:4])
	}
	if dark := staging.Pixels[2*4]; dark != 40 {
		t.Errorf("pixel (2,0) red = %d, want 40", dark)
	}

	if res.BindGroupProvider() == nil {
		t.Error("BindGroupProvider() is nil after Load")
	}
}

func TestLoadDefaultSamplerIsClampLinear(t *testing.T) {
	res, err := Load(encodeChecker(t, 4, 4, 1))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s := res.Sampler()
	if s.AddressModeU != wgpu.AddressModeClampToEdge || s.AddressModeV != wgpu.AddressModeClampToEdge || s.AddressModeW != wgpu.AddressModeClampToEdge {
		t.Errorf("address modes = %v/%v/%v, want clamp-to-edge", s.AddressModeU, s.AddressModeV, s.AddressModeW)
	}
	if s.MagFilter != wgpu.FilterModeLinear || s.MinFilter != wgpu.FilterModeLinear {
		t.Errorf("filters = %v/%v, want linear", s.MagFilter, s.MinFilter)
	}
	if s.MipmapFilter != wgpu.MipmapFilterModeNearest {
		t.Errorf("mipmap filter = %v, want nearest", s.MipmapFilter)
	}
}

func TestLoadRejectsUndecodableBytes(t *testing.T) {
	res, err := Load([]byte("not an image"))
	if err == nil {
		t.Fatal("Load succeeded on garbage bytes")
	}
	if !errors.Is(err, renderer.ErrResourceCreation) {
		t.Errorf("error = %v, want ErrResourceCreation", err)
	}
	if res != nil {
		t.Error("Load returned a resource alongside an error")
	}
}

func TestLoadRejectsOversizedTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, renderer.MaxTextureDimension2D+1, 1))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode oversized image: %v", err)
	}

	res, err := Load(buf.Bytes())
	if err == nil {
		t.Fatal("Load accepted a texture wider than the dimension limit")
	}
	if !errors.Is(err, renderer.ErrResourceCreation) {
		t.Errorf("error = %v, want ErrResourceCreation", err)
	}
	if res != nil {
		t.Error("Load returned a resource alongside an error")
	}
}
