package resource

import (
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// StoneTiledTexture is the name of the built-in ground texture.
const StoneTiledTexture = "Textures/StoneTiled"

const (
	stoneTextureSize = 256
	stoneTiles       = 4
	stoneMortar      = 3
)

// NewStoneTiledTexture draws a grid of slightly varied stone tiles separated by mortar.
// The pattern tiles seamlessly.
//
// Parameters:
//   - name: unused, present to satisfy TextureBuilder
//
// Returns:
//   - common.TextureStagingData: the RGBA pixels
//   - error: always nil
func NewStoneTiledTexture(name string) (common.TextureStagingData, error) {
	img := image.NewRGBA(image.Rect(0, 0, stoneTextureSize, stoneTextureSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(colornames.Dimgray), image.Point{}, draw.Src)

	base := colornames.Darkgray
	tile := stoneTextureSize / stoneTiles
	for ty := 0; ty < stoneTiles; ty++ {
		for tx := 0; tx < stoneTiles; tx++ {
			shade := tileShade(tx, ty)
			c := color.RGBA{
				R: shadeChannel(base.R, shade),
				G: shadeChannel(base.G, shade),
				B: shadeChannel(base.B, shade),
				A: 255,
			}
			r := image.Rect(
				tx*tile+stoneMortar, ty*tile+stoneMortar,
				(tx+1)*tile-stoneMortar, (ty+1)*tile-stoneMortar,
			)
			draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return common.NewTextureStagingData(img), nil
}

// tileShade returns a stable brightness offset in [-24, 24] for a tile.
func tileShade(x, y int) int {
	h := uint32(x*73856093) ^ uint32(y*19349663)
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return int(h%49) - 24
}

func shadeChannel(v uint8, shade int) uint8 {
	return uint8(common.Clamp(int(v)+shade, 0, 255))
}
