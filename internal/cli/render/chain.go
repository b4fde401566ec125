package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/trebuchet-org/artigen/internal/usecase"
)

var (
	addressStyle = color.New(color.FgCyan)
	hashStyle    = color.New(color.Faint)
	labelStyle   = color.New(color.Bold)
)

// ChainRenderer renders deploy, call and node results
type ChainRenderer struct {
	out     io.Writer
	printer *message.Printer
}

// NewChainRenderer creates a new chain renderer
func NewChainRenderer(out io.Writer) *ChainRenderer {
	return &ChainRenderer{
		out:     out,
		printer: message.NewPrinter(language.English),
	}
}

// RenderDeploy prints the address and receipt summary of a deployment
func (r *ChainRenderer) RenderDeploy(result *usecase.DeployContractResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s", result.Artifact.FullyQualifiedName())))
	r.field("Address", addressStyle.Sprint(result.Address.Hex()))
	r.field("Deployer", result.Deployer.Hex())
	r.field("Transaction", hashStyle.Sprint(result.TxHash.Hex()))
	r.field("Block", r.printer.Sprintf("%d", result.BlockNumber))
	r.field("Gas used", r.printer.Sprintf("%d", result.GasUsed))
	return nil
}

// RenderCall prints decoded outputs of a call or the receipt of a transaction
func (r *ChainRenderer) RenderCall(result *usecase.CallContractResult) error {
	if result.Receipt != nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s sent to %s", result.Method.Sig, result.Address.Hex())))
		r.field("Transaction", hashStyle.Sprint(result.Receipt.TxHash.Hex()))
		r.field("Block", r.printer.Sprintf("%d", result.Receipt.BlockNumber.Uint64()))
		r.field("Gas used", r.printer.Sprintf("%d", result.Receipt.GasUsed))
		return nil
	}

	if len(result.Outputs) == 0 {
		fmt.Fprintln(r.out, faintStyle.Sprint("(no return values)"))
		return nil
	}
	for i, out := range result.Outputs {
		name := fmt.Sprintf("[%d]", i)
		if i < len(result.Method.Outputs) && result.Method.Outputs[i].Name != "" {
			name = result.Method.Outputs[i].Name
		}
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint(name), formatValue(out))
	}
	return nil
}

// RenderNode prints the outcome of a node control operation
func (r *ChainRenderer) RenderNode(result *usecase.NodeResult) error {
	switch result.Action {
	case "snapshot":
		fmt.Fprintln(r.out, FormatSuccess("Snapshot taken"))
		r.field("ID", result.SnapshotID)
	case "revert":
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Reverted to snapshot %s", result.SnapshotID)))
	case "set-balance":
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Balance of %s set", result.Account.Hex())))
		r.field("Balance", formatEther(result.Balance))
		return nil
	case "impersonate":
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Impersonating %s", result.Account.Hex())))
		return nil
	case "stop-impersonating":
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Stopped impersonating %s", result.Account.Hex())))
		return nil
	default:
		fmt.Fprintln(r.out, FormatSuccess(strings.ReplaceAll(result.Action, "-", " ")))
	}
	r.field("Block", r.printer.Sprintf("%d", result.BlockNumber))
	return nil
}

func (r *ChainRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %-12s %s\n", labelStyle.Sprint(label+":"), value)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []byte:
		return fmt.Sprintf("0x%x", val)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprintf("%v", v)
}

// formatEther renders wei as ether with up to 18 decimals
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, new(big.Float).SetInt(big.NewInt(params.Ether)))
	s := strings.TrimRight(strings.TrimRight(f.Text('f', 18), "0"), ".")
	return s + " ETH"
}
