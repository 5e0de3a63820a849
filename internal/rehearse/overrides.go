package rehearse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/syamnaths/Action-cam/internal/domain/plan"
)

// Overrides maps a step index to a duration in seconds. It implements
// flag.Value so "-duration 1=4.5" may be repeated.
type Overrides map[int]float64

// String renders the overrides in index order.
func (o Overrides) String() string {
	idx := make([]int, 0, len(o))
	for i := range o {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	parts := make([]string, len(idx))
	for n, i := range idx {
		parts[n] = fmt.Sprintf("%d=%g", i, o[i])
	}
	return strings.Join(parts, ",")
}

// Set parses one "index=seconds" pair.
func (o Overrides) Set(v string) error {
	k, s, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("%w: %q: want index=seconds", ErrBadOverride, v)
	}
	i, err := strconv.Atoi(strings.TrimSpace(k))
	if err != nil || i < 0 {
		return fmt.Errorf("%w: %q: bad step index", ErrBadOverride, v)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrBadOverride, v, err)
	}
	o[i] = d
	return nil
}

// Apply writes every override into p, recomputing start times.
func (o Overrides) Apply(p *plan.Plan) error {
	for i, d := range o {
		if err := p.SetDuration(i, d); err != nil {
			return fmt.Errorf("%w: step %d: %w", ErrBadOverride, i, err)
		}
	}
	return nil
}
