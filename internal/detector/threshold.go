package detector

// otsuThreshold computes the threshold separating foreground from
// background in an intensity map with values in [0,1], using Otsu's
// between-class variance maximization.
func otsuThreshold(lum []float32) float32 {
	const bins = 256
	if len(lum) == 0 {
		return 0.5
	}

	histogram := make([]int, bins)
	for _, v := range lum {
		bin := int(v * float32(bins-1))
		if bin < 0 {
			bin = 0
		} else if bin >= bins {
			bin = bins - 1
		}
		histogram[bin]++
	}

	total := len(lum)
	var totalMean float32
	for i := 0; i < bins; i++ {
		totalMean += float32(i) * float32(histogram[i])
	}
	totalMean /= float32(total)

	var maxVariance float32
	best := 0
	var sumB float32
	wB := 0
	for t := 0; t < bins; t++ {
		wB += histogram[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float32(t) * float32(histogram[t])
		meanB := sumB / float32(wB)
		meanF := (totalMean*float32(total) - sumB) / float32(wF)
		variance := float32(wB) * float32(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}

	return float32(best) / float32(bins-1)
}

// binarize builds a boolean mask selecting pixels at or above the
// threshold (above=true) or strictly below it (above=false). The caller
// must return the mask via mempool.PutBool.
func binarize(lum []float32, above bool, thr float32) []bool {
	mask := getMask(len(lum))
	for i, v := range lum {
		if above {
			mask[i] = v >= thr
		} else {
			mask[i] = v < thr
		}
	}
	return mask
}
