package runtime

import (
	"fmt"
	"io"
)

// printer is the single output primitive behind print_out. Each call writes
// one line.
type printer struct {
	w io.Writer
}

func (p *printer) println(v Value) error {
	if _, err := fmt.Fprintln(p.w, v.String()); err != nil {
		return fmt.Errorf("print_out: %w", err)
	}
	return nil
}
