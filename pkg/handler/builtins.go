package handler

import (
	"context"
	"fmt"

	"github.com/kishhcodes/cloudgate/pkg/executor"
	"github.com/kishhcodes/cloudgate/pkg/gateway"
	"github.com/kishhcodes/cloudgate/pkg/notification"
	"github.com/kishhcodes/cloudgate/pkg/playbook"
	"github.com/kishhcodes/cloudgate/pkg/provider"
)

// Gateways maps a provider kind to the live Gateway the aws/gcp/azure/script
// handlers route through.
type Gateways map[provider.Kind]*gateway.Gateway

// RegisterBuiltins installs the aws, gcp, azure, notification, and script
// handlers, and their rollback sub-handlers where one makes sense (aws,
// gcp, azure). A rollback sub-handler composes its own inverse command
// from the original action's Params via rollbackCommands; RollbackRef is
// a human-readable label recorded for the audit trail, not something a
// handler executes.
func RegisterBuiltins(r *Registry, gateways Gateways, notifier notification.Sender) {
	r.Register("aws", providerHandler(provider.AWS, gateways))
	r.Register("gcp", providerHandler(provider.GCP, gateways))
	r.Register("azure", providerHandler(provider.Azure, gateways))
	r.Register("notification", notificationHandler(notifier))
	r.Register("script", scriptHandler(gateways))

	for _, kind := range []provider.Kind{provider.AWS, provider.GCP, provider.Azure} {
		r.RegisterRollback(string(kind), providerRollback(kind, gateways))
	}
}

func composeCommand(action playbook.Action) (string, error) {
	cmd, ok := action.Params["command"].(string)
	if !ok || cmd == "" {
		return "", fmt.Errorf("action %q is missing a string \"command\" parameter", action.Name)
	}
	return cmd, nil
}

func providerHandler(kind provider.Kind, gateways Gateways) Func {
	return func(ctx context.Context, action playbook.Action, dryRun bool, runCtx Context) Result {
		cmd, err := composeCommand(action)
		if err != nil {
			return Result{Status: Failed, Err: err, Message: err.Error()}
		}

		if dryRun {
			return Result{
				Status:        Completed,
				Message:       "[DRY-RUN] would execute: " + cmd,
				RollbackToken: action.RollbackRef,
			}
		}

		gw, ok := gateways[kind]
		if !ok {
			err := fmt.Errorf("no gateway configured for provider %s", kind)
			return Result{Status: Failed, Err: err, Message: err.Error()}
		}

		res := gw.ExecuteCommand(ctx, cmd)
		if res.Status == executor.Error {
			return Result{Status: Failed, Err: fmt.Errorf("%s", res.Output), Message: res.Output}
		}
		return Result{Status: Completed, Message: res.Output, RollbackToken: action.RollbackRef}
	}
}

// rollbackCommands maps an action's Name to the command that reverses it,
// built from the original action's Params. Rollback has no record of
// provider-side state captured before the action ran, so these reverse
// the mutation itself (e.g. remove the public-access block just added)
// rather than restoring a prior value the gateway never observed.
var rollbackCommands = map[string]func(params map[string]any) (string, error){
	"block_public_access": func(params map[string]any) (string, error) {
		bucket, ok := params["bucket"].(string)
		if !ok || bucket == "" {
			return "", fmt.Errorf("rollback: action params missing \"bucket\"")
		}
		return "aws s3api delete-public-access-block --bucket " + bucket, nil
	},
	"revoke_ingress_rule": func(params map[string]any) (string, error) {
		group, ok := params["group"].(string)
		if !ok || group == "" {
			return "", fmt.Errorf("rollback: action params missing \"group\"")
		}
		return "aws ec2 authorize-security-group-ingress --group-id " + group, nil
	},
}

func providerRollback(kind provider.Kind, gateways Gateways) RollbackFunc {
	return func(ctx context.Context, input RollbackInput) Result {
		if input.Token == "" {
			return Result{Status: Skipped, Message: "no rollback token recorded"}
		}
		build, ok := rollbackCommands[input.Action.Name]
		if !ok {
			return Result{Status: Skipped, Message: "no rollback command known for action " + input.Action.Name}
		}
		cmd, err := build(input.Action.Params)
		if err != nil {
			return Result{Status: Failed, Err: err, Message: err.Error()}
		}

		gw, ok := gateways[kind]
		if !ok {
			err := fmt.Errorf("no gateway configured for provider %s", kind)
			return Result{Status: Failed, Err: err, Message: err.Error()}
		}
		res := gw.ExecuteCommand(ctx, cmd)
		if res.Status == executor.Error {
			return Result{Status: Failed, Err: fmt.Errorf("%s", res.Output), Message: res.Output}
		}
		return Result{Status: RolledBack, Message: res.Output}
	}
}

// notificationHandler never mutates external state in dry runs or real
// runs: it composes the message and, on a real run, hands it to notifier
// for delivery. Delivery failures do not fail the playbook action; the
// content was still "sent" as far as the remediation is concerned, and
// notification delivery is a best-effort side channel.
func notificationHandler(notifier notification.Sender) Func {
	return func(ctx context.Context, action playbook.Action, dryRun bool, runCtx Context) Result {
		channel, _ := action.Params["channel"].(string)
		message, _ := action.Params["message"].(string)
		if message == "" {
			message = fmt.Sprintf("remediation action %q for finding %s", action.Name, runCtx.Finding.ID)
		}

		if dryRun || notifier == nil {
			return Result{Status: Completed, Message: "[DRY-RUN] would notify " + channel + ": " + message}
		}

		if err := notifier.Send(ctx, channel, message); err != nil {
			return Result{Status: Completed, Message: "notification send failed (non-fatal): " + err.Error()}
		}
		return Result{Status: Completed, Message: "notified " + channel + ": " + message}
	}
}

// scriptHandler executes a bounded command through the provider gateway
// named in action.Params["provider"], which re-applies C1/C3 policy before
// C4 spawns anything.
func scriptHandler(gateways Gateways) Func {
	return func(ctx context.Context, action playbook.Action, dryRun bool, runCtx Context) Result {
		cmd, err := composeCommand(action)
		if err != nil {
			return Result{Status: Failed, Err: err, Message: err.Error()}
		}
		providerName, _ := action.Params["provider"].(string)

		if dryRun {
			return Result{Status: Completed, Message: "[DRY-RUN] would run script: " + cmd}
		}

		gw, ok := gateways[provider.Kind(providerName)]
		if !ok {
			err := fmt.Errorf("script action %q names unknown provider %q", action.Name, providerName)
			return Result{Status: Failed, Err: err, Message: err.Error()}
		}

		res := gw.ExecuteCommand(ctx, cmd)
		if res.Status == executor.Error {
			return Result{Status: Failed, Err: fmt.Errorf("%s", res.Output), Message: res.Output}
		}
		return Result{Status: Completed, Message: res.Output}
	}
}
