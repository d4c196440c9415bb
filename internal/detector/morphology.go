package detector

import "github.com/MeKo-Tech/descan/internal/mempool"

func getMask(n int) []bool { return mempool.GetBool(n) }

// closeMask applies morphological closing (dilate then erode) to fill
// small gaps in the document mask before component extraction.
func closeMask(mask []bool, w, h, kernelSize int) []bool {
	if kernelSize <= 1 {
		return mask
	}
	dilated := dilateMask(mask, w, h, kernelSize)
	mempool.PutBool(mask)
	eroded := erodeMask(dilated, w, h, kernelSize)
	mempool.PutBool(dilated)
	return eroded
}

func dilateMask(mask []bool, w, h, kernelSize int) []bool {
	out := getMask(w * h)
	half := kernelSize / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			set := false
			for ky := -half; ky <= half && !set; ky++ {
				yy := y + ky
				if yy < 0 || yy >= h {
					continue
				}
				for kx := -half; kx <= half; kx++ {
					xx := x + kx
					if xx >= 0 && xx < w && mask[yy*w+xx] {
						set = true
						break
					}
				}
			}
			out[y*w+x] = set
		}
	}
	return out
}

func erodeMask(mask []bool, w, h, kernelSize int) []bool {
	out := getMask(w * h)
	half := kernelSize / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			keep := true
			for ky := -half; ky <= half && keep; ky++ {
				yy := y + ky
				if yy < 0 || yy >= h {
					keep = false
					break
				}
				for kx := -half; kx <= half; kx++ {
					xx := x + kx
					if xx < 0 || xx >= w || !mask[yy*w+xx] {
						keep = false
						break
					}
				}
			}
			out[y*w+x] = keep
		}
	}
	return out
}
