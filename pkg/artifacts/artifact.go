// Package artifacts is the runtime support imported by code that artigen
// generates. It holds the compiled-contract artifact model and the keyed
// lookup table that generated packages register into.
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ImportPath is the import path generated packages use for this package.
const ImportPath = "github.com/trebuchet-org/artigen/pkg/artifacts"

const (
	// FormatHardhat is the artifact format written by Hardhat.
	FormatHardhat = "hh-sol-artifact-1"
	// FormatFoundry marks artifacts normalized from Foundry output.
	FormatFoundry = "foundry"
)

var (
	ErrNotFound         = errors.New("artifact not found")
	ErrAmbiguousName    = errors.New("ambiguous contract name")
	ErrUnlinkedBytecode = errors.New("bytecode has unlinked library references")
	ErrNoBytecode       = errors.New("artifact has no bytecode")
)

// LinkReference is the position of a library address placeholder in bytecode.
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// LinkReferences maps source name -> library name -> placeholder positions.
type LinkReferences map[string]map[string][]LinkReference

// Artifact is the compiled output for one contract.
type Artifact struct {
	Format                 string          `json:"_format"`
	ContractName           string          `json:"contractName"`
	SourceName             string          `json:"sourceName"`
	ABI                    json.RawMessage `json:"abi"`
	Bytecode               string          `json:"bytecode"`
	DeployedBytecode       string          `json:"deployedBytecode"`
	LinkReferences         LinkReferences  `json:"linkReferences"`
	DeployedLinkReferences LinkReferences  `json:"deployedLinkReferences"`
}

// Parse decodes an artifact from JSON. The ABI is kept verbatim in compact
// form so that re-encoding is deterministic.
func Parse(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	if a.ContractName == "" {
		return nil, fmt.Errorf("failed to parse artifact: missing contractName")
	}
	if len(a.ABI) == 0 {
		a.ABI = json.RawMessage("[]")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, a.ABI); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: invalid abi: %w", a.ContractName, err)
	}
	if compact.Bytes()[0] != '[' {
		return nil, fmt.Errorf("failed to parse artifact %s: abi is not a list", a.ContractName)
	}
	a.ABI = compact.Bytes()
	return &a, nil
}

// MustParse is like Parse but panics on error. Generated code uses it to
// initialise package-level artifact variables.
func MustParse(data []byte) *Artifact {
	a, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return a
}

// FullyQualifiedName returns "<sourceName>:<contractName>".
func (a *Artifact) FullyQualifiedName() string {
	return a.SourceName + ":" + a.ContractName
}

// MarshalIndent serializes the artifact in the canonical layout used by
// generated files.
func (a *Artifact) MarshalIndent() ([]byte, error) {
	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize artifact %s: %w", a.FullyQualifiedName(), err)
	}
	return out, nil
}

// ParsedABI decodes the interface description.
func (a *Artifact) ParsedABI() (*abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi of %s: %w", a.FullyQualifiedName(), err)
	}
	return &parsed, nil
}

// IsDeployable reports whether the artifact carries creation bytecode.
func (a *Artifact) IsDeployable() bool {
	return a.Bytecode != "" && a.Bytecode != "0x"
}

// IsLinked reports whether the creation bytecode is free of library placeholders.
func (a *Artifact) IsLinked() bool {
	return len(a.LinkReferences) == 0 && !strings.Contains(a.Bytecode, "__")
}

// BytecodeBytes decodes the creation bytecode.
func (a *Artifact) BytecodeBytes() ([]byte, error) {
	if !a.IsDeployable() {
		return nil, fmt.Errorf("%s: %w", a.FullyQualifiedName(), ErrNoBytecode)
	}
	if !a.IsLinked() {
		return nil, fmt.Errorf("%s: %w", a.FullyQualifiedName(), ErrUnlinkedBytecode)
	}
	code := a.Bytecode
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	out, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", a.FullyQualifiedName(), err)
	}
	return out, nil
}
