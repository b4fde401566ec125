package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/trebuchet-org/artigen/internal/usecase"
)

// ArgParser converts command-line strings into values abi.Pack accepts
type ArgParser struct{}

// NewArgParser creates a new argument parser
func NewArgParser() *ArgParser {
	return &ArgParser{}
}

// ParseArgs parses one string per input. Integers accept decimal or 0x hex,
// byte types take 0x hex and arrays take a JSON list.
func (p *ArgParser) ParseArgs(inputs abi.Arguments, args []string) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	values := make([]any, 0, len(args))
	for i, input := range inputs {
		v, err := parseValue(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func parseValue(t abi.Type, raw string) (any, error) {
	switch t.T {
	case abi.StringTy:
		return raw, nil

	case abi.BoolTy:
		return strconv.ParseBool(raw)

	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return common.HexToAddress(raw), nil

	case abi.IntTy, abi.UintTy:
		return parseInteger(t, raw)

	case abi.BytesTy:
		return hexutil.Decode(raw)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		return parseList(t, raw)
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

func parseInteger(t abi.Type, raw string) (any, error) {
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for unsigned type", raw)
	}
	bits := n.BitLen()
	if t.T == abi.IntTy {
		// two's complement: -2^(k-1) fits in k bits
		bits++
		if n.Sign() < 0 {
			bits = new(big.Int).Not(n).BitLen() + 1
		}
	}
	if bits > t.Size {
		return nil, fmt.Errorf("%s overflows %s", raw, t)
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func parseList(t abi.Type, raw string) (any, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, fmt.Errorf("expected a JSON list: %w", err)
	}
	if t.T == abi.ArrayTy && len(elems) != t.Size {
		return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(elems))
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(elems), len(elems))
	}
	for i, elem := range elems {
		v, err := parseValue(*t.Elem, elementString(elem))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// elementString unquotes JSON strings and keeps numbers, booleans and
// nested lists as written
func elementString(elem json.RawMessage) string {
	var s string
	if err := json.Unmarshal(elem, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(elem))
}

var _ usecase.ArgParser = (*ArgParser)(nil)
