//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package bench implements a minimal reader/writer for the textual
// BENCH circuit format -- INPUT(id) / id = OP(op1, op2) / OUTPUT(id)
// lines -- just enough to drive the simplifier from the command line.
// It is deliberately not a complete or forgiving implementation of
// BENCH or AIGER I/O: blank lines and whole-line "#" comments are
// skipped, but trailing comments, other whitespace conventions and
// gate names outside the gate package's vocabulary are rejected.
package bench

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/gate"
)

var (
	reInput  = regexp.MustCompile(`^INPUT\(([A-Za-z0-9_]+)\)$`)
	reOutput = regexp.MustCompile(`^OUTPUT\(([A-Za-z0-9_]+)\)$`)
	reGate   = regexp.MustCompile(`^([A-Za-z0-9_]+)\s*=\s*([A-Za-z_]+)\(([^)]*)\)$`)
)

// Parse reads a BENCH-format circuit from in, interning its textual
// signal names into dense circuit.GateIDs in first-appearance order.
func Parse(in io.Reader) (*circuit.Circuit, error) {
	c := circuit.New()
	names := make(map[string]circuit.GateID)
	var outputs []circuit.GateID

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case reInput.MatchString(line):
			name := reInput.FindStringSubmatch(line)[1]
			if _, ok := names[name]; ok {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("signal %q declared twice", name)}
			}
			id, err := c.AddGate(gate.Input)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: err.Error()}
			}
			names[name] = id

		case reOutput.MatchString(line):
			name := reOutput.FindStringSubmatch(line)[1]
			id, ok := names[name]
			if !ok {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("OUTPUT references unknown signal %q", name)}
			}
			outputs = append(outputs, id)

		case reGate.MatchString(line):
			m := reGate.FindStringSubmatch(line)
			name, opName, argList := m[1], m[2], m[3]
			if _, ok := names[name]; ok {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("signal %q declared twice", name)}
			}
			t, err := gate.ParseType(strings.ToUpper(opName))
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: err.Error()}
			}

			var operands []circuit.GateID
			for _, arg := range strings.Split(argList, ",") {
				arg = strings.TrimSpace(arg)
				if arg == "" {
					continue
				}
				id, ok := names[arg]
				if !ok {
					return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("gate %q references unknown signal %q", name, arg)}
				}
				operands = append(operands, id)
			}
			if want := t.Arity(); want > 0 && len(operands) != want {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("%s takes %d operands, got %d", t, want, len(operands))}
			}

			id, err := c.AddGate(t, operands...)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: err.Error()}
			}
			names[name] = id

		default:
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unrecognized line %q", line)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	c.SetOutputs(outputs)
	return c, nil
}

// Write serializes c in BENCH format, synthesizing a "wNN" name for
// every signal since circuit.Circuit does not retain the original
// textual names Parse consumed.
func Write(out io.Writer, c *circuit.Circuit) error {
	w := bufio.NewWriter(out)
	name := func(id circuit.GateID) string { return fmt.Sprintf("w%d", id) }

	for id := circuit.GateID(0); int(id) < c.GateCount(); id++ {
		if c.Type(id) == gate.Input {
			if _, err := fmt.Fprintf(w, "INPUT(%s)\n", name(id)); err != nil {
				return err
			}
		}
	}
	for id := circuit.GateID(0); int(id) < c.GateCount(); id++ {
		if c.Type(id) == gate.Input {
			continue
		}
		ops := c.Operands(id)
		args := make([]string, len(ops))
		for i, op := range ops {
			args[i] = name(op)
		}
		if _, err := fmt.Fprintf(w, "%s = %s(%s)\n", name(id), c.Type(id), strings.Join(args, ", ")); err != nil {
			return err
		}
	}
	for _, id := range c.Outputs() {
		if _, err := fmt.Fprintf(w, "OUTPUT(%s)\n", name(id)); err != nil {
			return err
		}
	}
	return w.Flush()
}
