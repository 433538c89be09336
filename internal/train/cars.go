package train

// CarPositions returns the arc-length centers of n cars trailing the
// given front position, nose first.
func CarPositions(front float64, n int, length, gap float64) []float64 {
	centers := make([]float64, n)
	for i := range centers {
		centers[i] = front - length/2 - float64(i)*(length+gap)
	}
	return centers
}
