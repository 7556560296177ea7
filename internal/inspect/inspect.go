// Package inspect decodes pool rejection messages and locates the
// failing region of an application's approval program.
package inspect

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"algorand-defi-lab/internal/node"
)

var pcPattern = regexp.MustCompile(`pc=(\d+)`)

// ParseFailedPC extracts the program counter from a logic-eval pool
// error such as "logic eval error: assert failed pc=297". The second
// return is false when the message carries no program counter.
func ParseFailedPC(poolError string) (uint64, bool) {
	m := pcPattern.FindStringSubmatch(poolError)
	if m == nil {
		return 0, false
	}
	pc, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return pc, true
}

// ProgramWindow is a hex view of approval-program bytes around one
// program counter.
type ProgramWindow struct {
	AppID       uint64
	PC          uint64
	Start       uint64 // first byte offset shown
	Bytes       []byte // raw program bytes in [Start, Start+len)
	ProgramSize int
}

// Hex renders the window with the byte at PC bracketed.
func (w ProgramWindow) Hex() string {
	var b strings.Builder
	for i, by := range w.Bytes {
		if i > 0 {
			b.WriteByte(' ')
		}
		off := w.Start + uint64(i)
		if off == w.PC {
			fmt.Fprintf(&b, "[%02x]", by)
		} else {
			fmt.Fprintf(&b, "%02x", by)
		}
	}
	return b.String()
}

// Window slices program bytes around pc, radius bytes to each side,
// clamped to the program bounds.
func Window(program []byte, pc uint64, radius uint64) ProgramWindow {
	size := uint64(len(program))
	if pc >= size {
		return ProgramWindow{PC: pc, Start: size, ProgramSize: len(program)}
	}
	start := uint64(0)
	if pc > radius {
		start = pc - radius
	}
	end := pc + radius + 1
	if end > size {
		end = size
	}
	return ProgramWindow{
		PC:          pc,
		Start:       start,
		Bytes:       program[start:end],
		ProgramSize: len(program),
	}
}

// Inspector fetches on-chain application programs.
type Inspector struct {
	client node.Client
}

// New creates an Inspector backed by a node client.
func New(client node.Client) *Inspector {
	return &Inspector{client: client}
}

// FailedRegion fetches appID's approval program and returns the hex
// window around the program counter reported in a pool error.
func (in *Inspector) FailedRegion(ctx context.Context, appID, pc uint64, radius uint64) (ProgramWindow, error) {
	app, err := in.client.ApplicationInformation(ctx, appID)
	if err != nil {
		return ProgramWindow{}, fmt.Errorf("application information for %d: %w", appID, err)
	}
	program := app.Params.ApprovalProgram
	if len(program) == 0 {
		return ProgramWindow{}, fmt.Errorf("application %d has no approval program", appID)
	}
	w := Window(program, pc, radius)
	w.AppID = appID
	return w, nil
}
