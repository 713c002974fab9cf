package world

import "math"

var sqrt3 = math.Sqrt(3.0)

// Layout converts between axial coordinates and pixel space for pointy-top hexes.
type Layout struct {
	Size    float64 // Hex radius in pixels (center to corner)
	OriginX float64 // Pixel offset of hex (0,0)
	OriginY float64
}

// ToPixel returns the pixel center of h.
func (l Layout) ToPixel(h HexCoord) (x, y float64) {
	x = l.Size * sqrt3 * (float64(h.Q) + float64(h.R)/2)
	y = l.Size * 1.5 * float64(h.R)
	return x + l.OriginX, y + l.OriginY
}

// FromPixel returns the hex containing the pixel (x, y).
func (l Layout) FromPixel(x, y float64) HexCoord {
	px := x - l.OriginX
	py := y - l.OriginY

	qf := (sqrt3/3*px - py/3) / l.Size
	rf := (2.0 / 3 * py) / l.Size
	return cubeRound(qf, -qf-rf, rf)
}

// cubeRound rounds fractional cube coordinates to the nearest hex.
// The component with the largest rounding error is rebuilt from the other two
// so the result keeps x+y+z == 0.
func cubeRound(xf, yf, zf float64) HexCoord {
	rx, ry, rz := math.Round(xf), math.Round(yf), math.Round(zf)
	dx, dy, dz := math.Abs(rx-xf), math.Abs(ry-yf), math.Abs(rz-zf)

	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return HexCoord{Q: int(rx), R: int(rz)}
}

// Corners returns the six corner points of the hex at h, for outline drawing.
func (l Layout) Corners(h HexCoord) [6][2]float64 {
	cx, cy := l.ToPixel(h)
	var pts [6][2]float64
	for i := range pts {
		angle := math.Pi / 180 * float64(60*i-30)
		pts[i] = [2]float64{cx + l.Size*math.Cos(angle), cy + l.Size*math.Sin(angle)}
	}
	return pts
}
