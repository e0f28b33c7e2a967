package txsubmitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// The helpers below produce entry function arguments in the BCS form the node
// expects. The submitter itself never coerces arguments.

// AddressArg encodes an account address given in short or long hex form.
func AddressArg(s string) ([]byte, error) {
	var addr aptos.AccountAddress
	if err := addr.ParseStringRelaxed(s); err != nil {
		return nil, fmt.Errorf("invalid address argument %q: %w", s, err)
	}
	return bcs.Serialize(&addr)
}

// U64Arg encodes a u64 argument.
func U64Arg(v uint64) ([]byte, error) {
	return bcs.SerializeU64(v)
}

// BoolArg encodes a bool argument.
func BoolArg(v bool) ([]byte, error) {
	ser := &bcs.Serializer{}
	ser.Bool(v)
	if err := ser.Error(); err != nil {
		return nil, err
	}
	return ser.ToBytes(), nil
}

// StringArg encodes a 0x1::string::String argument.
func StringArg(s string) ([]byte, error) {
	ser := &bcs.Serializer{}
	ser.WriteString(s)
	if err := ser.Error(); err != nil {
		return nil, err
	}
	return ser.ToBytes(), nil
}

// HexArg decodes an already BCS-encoded argument written as 0x-prefixed hex.
func HexArg(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex argument %q: %w", s, err)
	}
	return b, nil
}

// ParseTypedArg decodes a CLI argument of the form <type>:<value>,
// where type is one of address, u64, bool, string or hex.
func ParseTypedArg(s string) ([]byte, error) {
	kind, value, ok := strings.Cut(s, ":")
	if !ok || kind == "" {
		return nil, fmt.Errorf("argument %q must look like <type>:<value>", s)
	}
	switch kind {
	case "address":
		return AddressArg(value)
	case "u64":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid u64 argument %q: %w", value, err)
		}
		return U64Arg(v)
	case "bool":
		switch value {
		case "true":
			return BoolArg(true)
		case "false":
			return BoolArg(false)
		}
		return nil, fmt.Errorf("invalid bool argument %q", value)
	case "string":
		return StringArg(value)
	case "hex":
		return HexArg(value)
	default:
		return nil, fmt.Errorf("unsupported argument type %q", kind)
	}
}
