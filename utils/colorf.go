package utils

type ColorFloat [4]float32

func (c *ColorFloat) RGBA() (r, g, b, a uint32) {
	const mf = float32(256*256 - 1)
	r = uint32(c[0] * mf)
	g = uint32(c[1] * mf)
	b = uint32(c[2] * mf)
	a = uint32(c[3] * mf)
	return
}

// NewColorHSL16 unpacks 16 bit hsl colour (6 bit hue, 3 bit saturation,
// 7 bit lightness) and alpha byte where 0 means opaque
func NewColorHSL16(hsl uint16, alpha uint8) ColorFloat {
	h := float64(hsl>>10&0x3f)/64.0 + 0.0078125
	s := float64(hsl>>7&0x7)/8.0 + 0.0625
	l := float64(hsl&0x7f) / 128.0

	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hueToChannel(p, q, h+1.0/3.0)
		g = hueToChannel(p, q, h)
		b = hueToChannel(p, q, h-1.0/3.0)
	}
	return ColorFloat{float32(r), float32(g), float32(b), 1.0 - float32(alpha)/255.0}
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case 6*t < 1:
		return p + (q-p)*6*t
	case 2*t < 1:
		return q
	case 3*t < 2:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

func (c ColorFloat) RGBA8() [4]uint8 {
	var out [4]uint8
	for i, f := range c {
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		out[i] = uint8(f*255 + 0.5)
	}
	return out
}
