package interpreter

import (
	"fmt"
	"math"
	"strings"

	"bintpl/ast"
	"bintpl/colors"
	"bintpl/reader"
	"bintpl/value"
)

func defaultHostFuncs() map[string]HostFunc {
	return map[string]HostFunc{
		"Printf":        hostPrintf,
		"Warning":       hostWarning,
		"SetBackColor":  hostSetBackColor,
		"SetForeColor":  hostSetForeColor,
		"FTell":         hostFTell,
		"FEof":          hostFEof,
		"FileSize":      hostFileSize,
		"FSeek":         hostFSeek,
		"ReadBytes":     hostReadBytes,
		"ReadUInt":      hostReadUInt,
		"LittleEndian":  hostLittleEndian,
		"BigEndian":     hostBigEndian,
		"Ceil":          hostCeil,
	}
}

func checkArity(i *Interpreter, call ast.Call, min, max int) bool {
	n := len(call.Arguments)
	if n < min || (max >= 0 && n > max) {
		i.fail(&ArgumentError{Line: call.Callee.Line, Column: call.Callee.Column,
			Message: fmt.Sprintf("%s expects %s argument(s), got %d", call.Callee.Lexeme, arityLabel(min, max), n)})
		return false
	}
	return true
}

func arityLabel(min, max int) string {
	if max < 0 {
		return fmt.Sprintf("at least %d", min)
	}
	if min == max {
		return fmt.Sprintf("%d", min)
	}
	return fmt.Sprintf("%d to %d", min, max)
}

func hostPrintf(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 1, -1) {
		return nil
	}
	return doPrintf(i, call, "")
}

func hostWarning(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 1, -1) {
		return nil
	}
	return doPrintf(i, call, "WARNING: ")
}

func doPrintf(i *Interpreter, call ast.Call, prefix string) *value.Value {
	formatVal := i.evaluate(call.Arguments[0])
	if i.State != StateNone {
		return nil
	}
	if !formatVal.IsString() {
		i.fail(&TypeErr{Line: call.Callee.Line, Column: call.Callee.Column, Message: "format argument must be a string"})
		return nil
	}
	args := make([]*value.Value, 0, len(call.Arguments)-1)
	for _, a := range call.Arguments[1:] {
		v := i.evaluate(a)
		if i.State != StateNone {
			return nil
		}
		args = append(args, v)
	}
	out, err := formatPrintf(formatVal.String(), args)
	if err != nil {
		i.fail(&TypeErr{Line: call.Callee.Line, Column: call.Callee.Column, Message: err.Error()})
		return nil
	}
	fmt.Fprint(i.Output, prefix+out)
	return value.NewNull()
}

// formatPrintf implements the format-syntax subset of spec §6:
// %d %i %u %x %X %o %c %s %f %e %g %lf %Ld %Lu %Lx %LX, with a
// width/precision substring ('-', digits, '.') accepted and skipped,
// and the escapes \" \t \r \n ('\x' otherwise passes x through).
func formatPrintf(format string, args []*value.Value) (string, error) {
	var out strings.Builder
	argIdx := 0
	next := func() (*value.Value, error) {
		if argIdx >= len(args) {
			return nil, fmt.Errorf("too few arguments for format string")
		}
		v := args[argIdx]
		argIdx++
		return v, nil
	}

	runes := []rune(format)
	for idx := 0; idx < len(runes); idx++ {
		c := runes[idx]
		switch c {
		case '\\':
			if idx+1 < len(runes) {
				idx++
				switch runes[idx] {
				case '"':
					out.WriteByte('"')
				case 't':
					out.WriteByte('\t')
				case 'r':
					out.WriteByte('\r')
				case 'n':
					out.WriteByte('\n')
				default:
					out.WriteRune(runes[idx])
				}
			}
		case '%':
			idx++
			for idx < len(runes) && (runes[idx] == '-' || runes[idx] == '.' || (runes[idx] >= '0' && runes[idx] <= '9')) {
				idx++
			}
			if idx >= len(runes) {
				return "", fmt.Errorf("dangling %% in format string")
			}
			wide := false
			if runes[idx] == 'L' {
				wide = true
				idx++
			}
			if idx >= len(runes) {
				return "", fmt.Errorf("dangling %% in format string")
			}
			v, err := next()
			if err != nil {
				return "", err
			}
			switch runes[idx] {
			case 'd', 'i':
				if wide {
					fmt.Fprintf(&out, "%d", v.Int64())
				} else {
					fmt.Fprintf(&out, "%d", int32(v.Int64()))
				}
			case 'u':
				if wide {
					fmt.Fprintf(&out, "%d", v.Uint64())
				} else {
					fmt.Fprintf(&out, "%d", uint32(v.Uint64()))
				}
			case 'x':
				if wide {
					fmt.Fprintf(&out, "%x", v.Uint64())
				} else {
					fmt.Fprintf(&out, "%x", uint32(v.Uint64()))
				}
			case 'X':
				if wide {
					fmt.Fprintf(&out, "%X", v.Uint64())
				} else {
					fmt.Fprintf(&out, "%X", uint32(v.Uint64()))
				}
			case 'o':
				fmt.Fprintf(&out, "%o", v.Uint64())
			case 'c':
				out.WriteByte(byte(v.Uint64()))
			case 's':
				out.WriteString(v.String())
			case 'f', 'l':
				fmt.Fprintf(&out, "%f", v.Float64())
				if runes[idx] == 'l' && idx+1 < len(runes) && runes[idx+1] == 'f' {
					idx++
				}
			case 'e':
				fmt.Fprintf(&out, "%e", v.Float64())
			case 'g':
				fmt.Fprintf(&out, "%g", v.Float64())
			default:
				return "", fmt.Errorf("unsupported format specifier %%%c", runes[idx])
			}
		default:
			out.WriteRune(c)
		}
	}
	return out.String(), nil
}

func resolveColorArg(i *Interpreter, expr ast.Expression) (uint32, error) {
	if v, ok := expr.(ast.Variable); ok {
		if c, ok := colors.Lookup(v.Name.Lexeme); ok {
			return c, nil
		}
	}
	val := i.evaluate(expr)
	if i.State != StateNone {
		return 0, i.Err
	}
	if !val.IsInteger() {
		return 0, &TypeErr{Message: "color argument must be a color identifier or integer"}
	}
	return uint32(val.Uint64()), nil
}

func hostSetBackColor(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 1, 1) {
		return nil
	}
	c, err := resolveColorArg(i, call.Arguments[0])
	if err != nil {
		i.fail(err)
		return nil
	}
	if i.lastDeclared != nil {
		i.lastDeclared.BGColor = c
	}
	return value.NewNull()
}

func hostSetForeColor(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 1, 1) {
		return nil
	}
	c, err := resolveColorArg(i, call.Arguments[0])
	if err != nil {
		i.fail(err)
		return nil
	}
	if i.lastDeclared != nil {
		i.lastDeclared.FGColor = c
	}
	return value.NewNull()
}

func hostFTell(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 0, 0) {
		return nil
	}
	return value.NewUint(value.U64, i.Reader.Offset())
}

func hostFEof(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 0, 0) {
		return nil
	}
	return value.NewBool(i.Reader.AtEof())
}

func hostFileSize(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 0, 0) {
		return nil
	}
	return value.NewUint(value.U64, i.Reader.Size())
}

func hostFSeek(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 1, 1) {
		return nil
	}
	off := i.evaluate(call.Arguments[0])
	if i.State != StateNone {
		return nil
	}
	if !off.IsInteger() || off.Int64() < 0 || uint64(off.Int64()) >= i.Reader.Size() {
		return value.NewInt(value.S64, -1)
	}
	i.Reader.Seek(uint64(off.Int64()))
	return value.NewInt(value.S64, 0)
}

func hostReadBytes(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 3, 3) {
		return nil
	}
	dest, err := i.resolveLValue(call.Arguments[0])
	if err != nil {
		i.fail(err)
		return nil
	}
	offVal := i.evaluate(call.Arguments[1])
	if i.State != StateNone {
		return nil
	}
	nVal := i.evaluate(call.Arguments[2])
	if i.State != StateNone {
		return nil
	}
	if !offVal.IsInteger() || !nVal.IsInteger() || nVal.Int64() < 0 {
		i.fail(&TypeErr{Message: "ReadBytes requires integer offset and count"})
		return nil
	}
	buf, rerr := i.Reader.ReadBytesAt(uint64(offVal.Int64()), int(nVal.Int64()))
	if rerr != nil {
		i.fail(rerr)
		return nil
	}
	switch {
	case dest.IsString():
		dest.StringBuf = buf
	case dest.Kind == value.Array:
		dest.Members = dest.Members[:0]
		for _, b := range buf {
			dest.Members = append(dest.Members, value.NewUint(value.U8, uint64(b)))
		}
	default:
		i.fail(&TypeErr{Message: "ReadBytes destination must be a string or array"})
		return nil
	}
	return value.NewNull()
}

func hostReadUInt(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 0, 1) {
		return nil
	}
	off := i.Reader.Offset()
	if len(call.Arguments) == 1 {
		v := i.evaluate(call.Arguments[0])
		if i.State != StateNone {
			return nil
		}
		if !v.IsInteger() {
			i.fail(&TypeErr{Message: "ReadUInt offset must be an integer"})
			return nil
		}
		off = uint64(v.Int64())
	}
	u, err := i.Reader.ReadUint32At(off)
	if err != nil {
		i.fail(err)
		return nil
	}
	return value.NewUint(value.U32, uint64(u))
}

func hostLittleEndian(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 0, 0) {
		return nil
	}
	i.Reader.SetEndianness(reader.LittleEndian)
	return value.NewNull()
}

func hostBigEndian(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 0, 0) {
		return nil
	}
	i.Reader.SetEndianness(reader.BigEndian)
	return value.NewNull()
}

func hostCeil(i *Interpreter, call ast.Call) *value.Value {
	if !checkArity(i, call, 1, 1) {
		return nil
	}
	v := i.evaluate(call.Arguments[0])
	if i.State != StateNone {
		return nil
	}
	return value.NewFloat(value.Double, math.Ceil(v.Float64()))
}
