// Package transfer provides implementations of the external token transfer
// capability. The deployed setup shells out to a signing script that
// broadcasts the transfer and reports the outcome through its exit code.
package transfer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"faucet/service"

	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

// ScriptInvoker runs an external command, appending the destination account
// and amount as the final two arguments (for example
// "node sendhbar.js 0.0.123456 1"). Exit code 0 means the transfer
// succeeded; stdout is returned as diagnostic text.
type ScriptInvoker struct {
	argv    []string
	timeout time.Duration
}

// NewScriptInvoker creates a script-based transfer invoker from a
// whitespace-separated command line.
func NewScriptInvoker(command string, timeout time.Duration) (*ScriptInvoker, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("transfer command must not be empty")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("transfer timeout must be positive")
	}

	return &ScriptInvoker{argv: argv, timeout: timeout}, nil
}

// Transfer implements service.TransferInvoker.
func (s *ScriptInvoker) Transfer(ctx context.Context, account string, amount decimal.Decimal) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string{}, s.argv[1:]...), account, amount.String())
	cmd := exec.CommandContext(runCtx, s.argv[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.WithFields(log.Fields{
		"command": s.argv[0],
		"account": account,
		"amount":  amount,
	}).Debug("Invoking transfer script")

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		// The script may or may not have broadcast the transfer. Report the
		// outcome as unknown; the caller must not credit.
		return "", fmt.Errorf("after %s: %w", s.timeout, service.ErrTransferTimeout)
	}
	if err != nil {
		diagnostic := strings.TrimSpace(stderr.String() + "\n" + stdout.String())
		return "", fmt.Errorf("%s: %s: %w", s.argv[0], diagnostic, service.ErrTransferFailed)
	}

	return strings.TrimSpace(stdout.String()), nil
}
