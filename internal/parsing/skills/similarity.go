package skills

// ratio is the classic sequence similarity measure 2*M/T, where M is the
// total size of the longest common blocks found recursively and T is the
// combined length of both strings. Results range from 0.0 to 1.0.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingSize(ra, rb)) / float64(total)
}

type window struct{ alo, ahi, blo, bhi int }

func matchingSize(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	size := 0
	queue := []window{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		w := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, w)
		if k == 0 {
			continue
		}
		size += k
		queue = append(queue,
			window{w.alo, i, w.blo, j},
			window{i + k, w.ahi, j + k, w.bhi},
		)
	}
	return size
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside the
// window, preferring the earliest block on ties.
func longestMatch(a []rune, b2j map[rune][]int, w window) (besti, bestj, bestsize int) {
	besti, bestj = w.alo, w.blo
	j2len := make(map[int]int)
	for i := w.alo; i < w.ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < w.blo {
				continue
			}
			if j >= w.bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
