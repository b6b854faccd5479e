package raw

import "fmt"

// QuadrantLabels resolves the colour label of each CFA quadrant for one
// image: quadrant k (row-major, k = rowParity*2 + colParity) carries
// colorDesc[pattern[row][col]]. A typical result is [R G G B] or
// [B G G R].
func QuadrantLabels(colorDesc string, pattern Pattern) ([4]byte, error) {
	var labels [4]byte
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			idx := pattern[r][c]
			if idx < 0 || idx >= len(colorDesc) {
				return labels, fmt.Errorf("raw pattern index %d out of range for color description %q", idx, colorDesc)
			}
			labels[r*2+c] = colorDesc[idx]
		}
	}
	return labels, nil
}

// quadrantKey disambiguates the two green samples of a Bayer tile by their
// row partner: Gr shares a row with R, Gb with B. Non-green labels key on
// the label alone.
func quadrantKey(labels [4]byte, q int) string {
	l := labels[q]
	if l != 'G' {
		return string(l)
	}
	partner := labels[q^1] // other cell in the same row
	return "G" + string(partner)
}

// AlignPermutation computes the channel permutation that reorders a
// shading map's last axis from its native CFA order into an image's own
// quadrant order: channel k of the permuted map lines up with image
// quadrant k. nativeOrder is the map's 2x2 layout flattened row-major
// (e.g. "RGGB").
func AlignPermutation(imageLabels [4]byte, nativeOrder string) ([4]int, error) {
	var perm [4]int
	if len(nativeOrder) != 4 {
		return perm, fmt.Errorf("native CFA order must name 4 channels, got %q", nativeOrder)
	}
	var native [4]byte
	copy(native[:], nativeOrder)

	used := [4]bool{}
	for q := 0; q < 4; q++ {
		key := quadrantKey(imageLabels, q)
		j := findChannel(native, used, key)
		if j < 0 {
			// Degenerate tiles (e.g. both greens in one row) cannot be
			// keyed by row partner; fall back to plain label matching.
			j = findChannel(native, used, string(imageLabels[q]))
		}
		if j < 0 {
			return perm, fmt.Errorf("image CFA %q has no channel matching quadrant %d (%c) in native order %q",
				imageLabels, q, imageLabels[q], nativeOrder)
		}
		used[j] = true
		perm[q] = j
	}
	return perm, nil
}

func findChannel(native [4]byte, used [4]bool, key string) int {
	for j := 0; j < 4; j++ {
		if used[j] {
			continue
		}
		if quadrantKey(native, j) == key {
			return j
		}
		// A bare label key matches any channel with that label.
		if len(key) == 1 && native[j] == key[0] {
			return j
		}
	}
	return -1
}
