package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// HeadlessEnv forces headless mode when set to a non-empty value other
// than "0" or "false".
const HeadlessEnv = "DJCRAFT_HEADLESS"

// HeadlessManager decides whether prompts and animated output may be
// used. Headless means no prompts and plain line-oriented output.
type HeadlessManager struct {
	forced *bool
	in     *os.File
	out    *os.File
	getenv func(string) string
}

// NewHeadlessManager detects headless mode from the TTY state of
// os.Stdin and os.Stdout and from the environment.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{in: os.Stdin, out: os.Stdout, getenv: os.Getenv}
}

// IsHeadless reports whether the UI should run without a terminal.
// ForceHeadless wins over everything else; then DJCRAFT_HEADLESS and CI
// are consulted; otherwise both stdin and stdout must be terminals.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	if envTrue(h.getenv(HeadlessEnv)) || envTrue(h.getenv("CI")) {
		return true
	}
	return !isTerminal(h.in) || !isTerminal(h.out)
}

// ForceHeadless overrides detection. Pass false to force interactive mode.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce reverts to automatic detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func envTrue(v string) bool {
	switch v {
	case "", "0", "false", "FALSE", "False":
		return false
	}
	return true
}
