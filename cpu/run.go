package cpu

import "context"

// Run loops on ExecuteNext until it returns an error (an undocumented
// opcode) or ctx is done. The context is only checked between
// instructions - per §5, ExecuteNext has no suspension points, so an
// instruction already in progress always runs to completion.
func (c *Chip) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.ExecuteNext(); err != nil {
			return err
		}
	}
}
