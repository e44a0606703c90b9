package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/searchsim/internal/config"
	"github.com/aretw0/searchsim/pkg/policy"
)

// Validate loads the simulation file and builds every session once without
// running it, so missing files and bad policy parameters surface early.
func Validate(path string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	jobs, err := Jobs(cfg, policy.Defaults())
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if _, err := j.Build(); err != nil {
			return fmt.Errorf("session %s: %w", j.ID, err)
		}
	}

	fmt.Fprintf(out, "✓ %s is valid (%d sessions)\n", path, len(jobs))
	return nil
}
