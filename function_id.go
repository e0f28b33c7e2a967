package txsubmitter

import (
	"fmt"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
)

// FunctionID is a fully-qualified Move entry function, e.g. 0x1::aptos_account::transfer.
type FunctionID struct {
	Address aptos.AccountAddress
	Module  string
	Name    string
}

// ParseFunctionID parses "<address>::<module>::<function>".
// The address accepts both the short and the long hex form.
func ParseFunctionID(s string) (FunctionID, error) {
	parts := strings.Split(strings.TrimSpace(s), "::")
	if len(parts) != 3 {
		return FunctionID{}, fmt.Errorf("%w: %q must look like 0xADDR::module::function", ErrInvalidFunctionID, s)
	}
	for _, p := range parts {
		if p == "" {
			return FunctionID{}, fmt.Errorf("%w: %q has an empty component", ErrInvalidFunctionID, s)
		}
	}

	var addr aptos.AccountAddress
	if err := addr.ParseStringRelaxed(parts[0]); err != nil {
		return FunctionID{}, fmt.Errorf("%w: bad address %q: %w", ErrInvalidFunctionID, parts[0], err)
	}

	return FunctionID{
		Address: addr,
		Module:  parts[1],
		Name:    parts[2],
	}, nil
}

// MustParseFunctionID is like ParseFunctionID but panics on error.
func MustParseFunctionID(s string) FunctionID {
	id, err := ParseFunctionID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (f FunctionID) String() string {
	return fmt.Sprintf("%s::%s::%s", f.Address.String(), f.Module, f.Name)
}

// IsZero reports whether the identifier was never set.
func (f FunctionID) IsZero() bool {
	return f.Module == "" && f.Name == ""
}

// ResourceType returns the fully-qualified struct tag <address>::<module>::<name>
// for a resource declared in the same module as f.
func (f FunctionID) ResourceType(structName string) string {
	return fmt.Sprintf("%s::%s::%s", f.Address.String(), f.Module, structName)
}
