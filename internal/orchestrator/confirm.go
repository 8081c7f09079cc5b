package orchestrator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/relcut/relcut/internal/domain"
)

// Confirmer is the confirmation gate between pipeline construction and
// execution. It asks exactly once per pipeline; there is no retry loop, an
// unrecognized answer discards the pipeline the same way "n" does.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConfirmer creates a Confirmer reading answers from in and writing the
// prompt and acknowledgements to out.
func NewConfirmer(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewReader(in), out: out}
}

// Ask prompts the operator and maps the single answer line to a decision.
func (c *Confirmer) Ask() (domain.Decision, error) {
	fmt.Fprint(c.out, "Continue (y/n)? ")
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.DecisionInvalid, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.TrimSpace(line) {
	case "y", "Y":
		return domain.DecisionApproved, nil
	case "n", "N":
		fmt.Fprintln(c.out, "Skipped.")
		return domain.DecisionDeclined, nil
	default:
		fmt.Fprintln(c.out, "invalid answer, skipping")
		return domain.DecisionInvalid, nil
	}
}
