// Package render drives the external renderer over finalized script text
// and consumes its line-oriented output. The text must be fully hardened
// before the process starts; mutation and live process communication
// never interleave.
package render

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result collects everything the renderer reported during one run.
type Result struct {
	Diagnostics []Diagnostic
	Positions   []PositionReport
	ExitCode    int
}

// Runner launches the renderer once per run.
type Runner struct {
	command []string
}

// NewRunner parses the configured renderer command line.
func NewRunner(command string) *Runner {
	return &Runner{command: strings.Fields(command)}
}

// Run writes the render-ready text to a temporary script, launches the
// renderer with it, and scans output for diagnostic and position-report
// lines. Process termination is surfaced through the returned error and
// Result.ExitCode, never merged into Diagnostics.
func (r *Runner) Run(ctx context.Context, script string) (*Result, error) {
	if len(r.command) == 0 {
		return nil, fmt.Errorf("no renderer command configured")
	}

	tmp, err := os.CreateTemp("", "scenepatch-*.py")
	if err != nil {
		return nil, fmt.Errorf("create temp script: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp script: %w", err)
	}

	args := append(append([]string{}, r.command[1:]...), tmp.Name())
	cmd := exec.CommandContext(ctx, r.command[0], args...)

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return nil, fmt.Errorf("start renderer: %w", err)
	}
	pw.Close()

	result := &Result{}
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if d, ok := ParseDiagnostic(line); ok {
			result.Diagnostics = append(result.Diagnostics, d)
			log.Warn().Int("line", d.Line).Str("error", d.Message).Msg("Animation fell back to snap")
			continue
		}
		if p, ok := ParsePositionReport(line); ok {
			result.Positions = append(result.Positions, p)
			continue
		}
		log.Debug().Str("renderer", line).Msg("Output")
	}
	pr.Close()

	waitErr := cmd.Wait()
	result.ExitCode = cmd.ProcessState.ExitCode()
	if waitErr != nil {
		log.Error().Int("exit_code", result.ExitCode).Msg("Renderer process terminated abnormally")
		return result, fmt.Errorf("renderer exited: %w", waitErr)
	}

	log.Info().
		Int("diagnostics", len(result.Diagnostics)).
		Int("positions", len(result.Positions)).
		Msg("Render complete")
	return result, nil
}
