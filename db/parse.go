//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package db

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/markkurossi/circopt/config"
	"github.com/markkurossi/circopt/gate"
	"github.com/markkurossi/circopt/xlog"
)

// tokenReader pulls whitespace-delimited tokens, the way
// circuits_db.hpp's read_db pulls tokens off an ifstream with >>.
type tokenReader struct {
	sc *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	return t.sc.Text(), true
}

func (t *tokenReader) nextToken(record int) (string, error) {
	s, ok := t.next()
	if !ok {
		return "", &ParseError{Line: record, Msg: "unexpected end of input"}
	}
	return s, nil
}

func (t *tokenReader) nextInt(record int) (int, error) {
	s, err := t.nextToken(record)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.Atoi(s)
	if perr != nil {
		return 0, &ParseError{Line: record, Msg: fmt.Sprintf("expected integer, got %q", s)}
	}
	return v, nil
}

// Load reads a subcircuit database text file in the format
// circuits_db.hpp.read_db expects: repeated records of
//
//	inputs_number outputs_number
//	<outputs_number truth-table patterns>
//	<outputs_number output gate ids>
//	<gate descriptions from id inputs_number to the max output id>
//
// If a gate description names an operand id above the max output id,
// gate descriptions are read up to that id as well.
//
// It returns a *config.ConfigError if path does not exist or basis is
// unsupported, and a *ParseError carrying the 1-based record ordinal
// on a malformed record. A duplicate output pattern overwrites the
// earlier record -- matching the original's silent-overwrite
// semantics -- but logs a Warningf through logger so the collision is
// at least visible; logger may be nil to suppress this.
func Load(path string, basis gate.Basis, logger *xlog.Logger) (*CircuitDB, error) {
	switch basis {
	case gate.AIG, gate.BENCH:
	default:
		return nil, &config.ConfigError{Msg: fmt.Sprintf("unsupported basis %s", basis)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &config.ConfigError{
			Msg: fmt.Sprintf("no subcircuit database at %s", path),
		}
	}
	defer f.Close()

	d := &CircuitDB{
		Basis: basis,
		index: make(map[Key]int),
	}
	tr := newTokenReader(f)

	record := 0
	for {
		inputsTok, ok := tr.next()
		if !ok {
			break
		}
		record++

		inputsNumber, perr := strconv.Atoi(inputsTok)
		if perr != nil {
			return nil, &ParseError{Line: record, Msg: fmt.Sprintf("expected inputs count, got %q", inputsTok)}
		}

		outputsNumber, err := tr.nextInt(record)
		if err != nil {
			return nil, err
		}

		patterns := make([]int64, outputsNumber)
		for i := range patterns {
			v, err := tr.nextInt(record)
			if err != nil {
				return nil, err
			}
			patterns[i] = int64(v)
		}

		outputs := make([]int, outputsNumber)
		maxIndex := 0
		for i := range outputs {
			v, err := tr.nextInt(record)
			if err != nil {
				return nil, err
			}
			outputs[i] = v
			if v > maxIndex {
				maxIndex = v
			}
		}

		var gates []GateOp
		for i := inputsNumber; i <= maxIndex; i++ {
			opTok, err := tr.nextToken(record)
			if err != nil {
				return nil, err
			}
			gt, perr := gate.ParseType(opTok)
			if perr != nil {
				return nil, &ParseError{Line: record, Msg: perr.Error()}
			}

			op1, err := tr.nextInt(record)
			if err != nil {
				return nil, err
			}
			operands := []int{op1}
			if op1 > maxIndex {
				maxIndex = op1
			}

			if gt != gate.Not {
				op2, err := tr.nextInt(record)
				if err != nil {
					return nil, err
				}
				operands = append(operands, op2)
				if op2 > maxIndex {
					maxIndex = op2
				}
			}

			gates = append(gates, GateOp{Type: gt, Operands: operands})
		}

		idx := len(d.Records)
		d.Records = append(d.Records, Record{
			InputsNumber:  inputsNumber,
			OutputsNumber: outputsNumber,
			Outputs:       outputs,
			Gates:         gates,
		})

		key, ok := NewKey(patterns)
		if !ok {
			return nil, &ParseError{
				Line: record,
				Msg:  fmt.Sprintf("output arity %d exceeds maximum %d", len(patterns), maxPatternArity),
			}
		}
		if prev, exists := d.index[key]; exists && logger != nil {
			logger.Warningf("record %d: duplicate output pattern overwrites record %d", record, prev)
		}
		d.index[key] = idx
	}

	return d, nil
}
