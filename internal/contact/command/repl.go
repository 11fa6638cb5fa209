package command

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"contactbook/pkg/requestcontext"
)

// Run prints the welcome line, then reads commands from in until exit,
// end of input or ctx cancellation. Each line gets its own request ID.
func (d *Dispatcher) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if _, err := fmt.Fprintln(out, Welcome); err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(out, Prompt); err != nil {
			return err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			_, err := fmt.Fprintln(out)
			return err
		}

		cmd, args := ParseInput(scanner.Text())
		if cmd == "" {
			continue
		}
		lineCtx := requestcontext.WithRequestID(ctx, uuid.NewString())
		reply, exit := d.Execute(lineCtx, cmd, args)
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}
