package pagination

import (
	"fmt"

	"github.com/oakline/oakline-backend/pkg/types"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns params with the limit clamped and negative offsets zeroed.
func Normalize(p Params) Params {
	p.Limit = NormalizeLimit(p.Limit)
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// BuildMeta assembles list metadata with next/previous links relative to path.
// Returns nil when total is zero so the envelope omits the meta block.
func BuildMeta(path string, total int64, p Params) *types.Meta {
	if total == 0 {
		return nil
	}

	p = Normalize(p)
	meta := &types.Meta{
		Total:  total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	if int64(p.Offset+p.Limit) < total {
		next := pageLink(path, p.Limit, p.Offset+p.Limit)
		meta.Next = &next
	}
	if p.Offset > 0 {
		prevOffset := p.Offset - p.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev := pageLink(path, p.Limit, prevOffset)
		meta.Previous = &prev
	}
	return meta
}

func pageLink(path string, limit, offset int) string {
	return fmt.Sprintf("%s?limit=%d&offset=%d", path, limit, offset)
}
