package core

// Scratch returns buf resliced to n zeroed samples, allocating only when the
// capacity of buf is short.
func Scratch(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) < n {
		return make([]float64, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
