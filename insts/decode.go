package insts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDecode is wrapped by every decoding failure.
var ErrDecode = errors.New("malformed instruction")

// Decode parses one instruction line. The accepted grammar is
// `RD <address>` or `WR <address> <value>`, with decimal operands. Any
// other opcode, a missing operand, or an unparsable operand is an error.
func Decode(line string) (Inst, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Inst{}, fmt.Errorf("%w: empty line", ErrDecode)
	}

	switch fields[0] {
	case "RD":
		return decodeRead(fields)
	case "WR":
		return decodeWrite(fields)
	default:
		return Inst{}, fmt.Errorf("%w: unknown opcode %q",
			ErrDecode, fields[0])
	}
}

func decodeRead(fields []string) (Inst, error) {
	if len(fields) != 2 {
		return Inst{}, fmt.Errorf("%w: RD takes 1 operand, got %d",
			ErrDecode, len(fields)-1)
	}

	addr, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Inst{}, fmt.Errorf("%w: bad address %q", ErrDecode, fields[1])
	}

	return Inst{Kind: Read, Addr: addr}, nil
}

func decodeWrite(fields []string) (Inst, error) {
	if len(fields) != 3 {
		return Inst{}, fmt.Errorf("%w: WR takes 2 operands, got %d",
			ErrDecode, len(fields)-1)
	}

	addr, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Inst{}, fmt.Errorf("%w: bad address %q", ErrDecode, fields[1])
	}

	value, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return Inst{}, fmt.Errorf("%w: bad value %q", ErrDecode, fields[2])
	}

	return Inst{Kind: Write, Addr: addr, Data: byte(value)}, nil
}
