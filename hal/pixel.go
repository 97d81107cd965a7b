package hal

// monoPixel reads pixel (x, y) from a PixelFormatMono1Paged buffer.
func monoPixel(buf []byte, width, x, y int) bool {
	i := x + (y/8)*width
	if x < 0 || x >= width || y < 0 || i >= len(buf) {
		return false
	}
	return buf[i]&(1<<uint(y%8)) != 0
}

// pwmLevel scales a 16-bit duty to an 8-bit brightness.
func pwmLevel(duty uint16) uint8 {
	return uint8(duty >> 8)
}
