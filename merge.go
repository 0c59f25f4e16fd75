package k3d

import (
	"math"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/k3d/kmath"
)

type cellKey [3]int64

// mergeByDistance merges points closer than dist to each other until no two
// remaining points are closer than dist. When two points merge the survivor
// takes the coordinates of the point that appears later in pts.
// The order of the returned points is not meaningful.
func mergeByDistance(pts []ms3.Vec, dist float32) []ms3.Vec {
	out := append([]ms3.Vec(nil), pts...)
	for {
		var merged bool
		out, merged = mergePass(out, dist)
		if !merged {
			return out
		}
	}
}

// mergePass does a single merging sweep over pts using a uniform grid of cell
// size dist, so candidate neighbors of a point lie in the 27 surrounding cells.
func mergePass(pts []ms3.Vec, dist float32) (_ []ms3.Vec, merged bool) {
	grid := make(map[cellKey][]int, len(pts))
	out := make([]ms3.Vec, 0, len(pts))
	inv := 1 / float64(dist)
	for _, p := range pts {
		key := cellOf(p, inv)
		survivor := -1
	SEARCH:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, idx := range grid[cellKey{key[0] + dx, key[1] + dy, key[2] + dz}] {
						if kmath.Length(ms3.Sub(out[idx], p)) < dist {
							survivor = idx
							break SEARCH
						}
					}
				}
			}
		}
		if survivor < 0 {
			grid[key] = append(grid[key], len(out))
			out = append(out, p)
			continue
		}
		merged = true
		old := cellOf(out[survivor], inv)
		if old != key {
			grid[old] = removeIndex(grid[old], survivor)
			grid[key] = append(grid[key], survivor)
		}
		out[survivor] = p
	}
	return out, merged
}

func cellOf(p ms3.Vec, inv float64) cellKey {
	return cellKey{
		int64(math.Floor(float64(p.X) * inv)),
		int64(math.Floor(float64(p.Y) * inv)),
		int64(math.Floor(float64(p.Z) * inv)),
	}
}

func removeIndex(s []int, v int) []int {
	for i := range s {
		if s[i] == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
