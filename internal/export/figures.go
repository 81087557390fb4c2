package export

import (
	"fmt"
	"path/filepath"
)

// FigurePath builds the output path the presentation layer uses for one
// metric's figure: {AGG}_{Behavior}_{Suffix}.png under a directory
// partitioned by aggregation name.
func FigurePath(dir, agg, behavior, suffix string) string {
	name := fmt.Sprintf("%s_%s_%s.png", agg, behavior, suffix)
	return filepath.Join(dir, agg, name)
}
