// Package gateway implements the per-provider façade (component C5) that
// composes the NL interpreter, pipeline parser, policy engine, and process
// executor into the single executeCommand entry point the rest of the
// system calls.
package gateway

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kishhcodes/cloudgate/pkg/command"
	"github.com/kishhcodes/cloudgate/pkg/executor"
	"github.com/kishhcodes/cloudgate/pkg/nlinterp"
	"github.com/kishhcodes/cloudgate/pkg/pipeline"
	"github.com/kishhcodes/cloudgate/pkg/policy"
	"github.com/kishhcodes/cloudgate/pkg/provider"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Gateway is one provider's façade: an explicit, independently constructed
// value (no process-wide singletons) that is safe for concurrent use once
// started.
type Gateway struct {
	spec        provider.Spec
	interpreter *nlinterp.Interpreter
	policyEng   *policy.Engine
	exec        *executor.Executor
	mode        policy.Mode
	opts        executor.Options

	mu      sync.RWMutex
	running bool
	ctx     provider.ContextInfo
}

// Config bundles a Gateway's dependencies and startup context.
type Config struct {
	Spec    provider.Spec
	Policy  *policy.Engine
	Exec    *executor.Executor
	Mode    policy.Mode
	Options executor.Options
}

// New constructs a Gateway. It does not verify the provider binary is
// installed; call Start for that.
func New(cfg Config) *Gateway {
	opts := cfg.Options.WithDefaults()
	if len(opts.AuthErrorPatterns) == 0 {
		opts.AuthErrorPatterns = cfg.Spec.AuthErrorPatterns
	}
	return &Gateway{
		spec:        cfg.Spec,
		interpreter: nlinterp.New(cfg.Spec),
		policyEng:   cfg.Policy,
		exec:        cfg.Exec,
		mode:        cfg.Mode,
		opts:        opts,
	}
}

// Start verifies the provider binary is installed on PATH and records the
// caller's desired context.
func (g *Gateway) Start(ctx provider.ContextInfo) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := lookPath(g.spec.Prefixes[0]); err != nil {
		return gwerrors.Wrap(gwerrors.KindValidation, "locate provider binary "+g.spec.Prefixes[0], err)
	}

	ctx.Provider = g.spec.Kind
	ctx.Current = true
	g.ctx = ctx
	g.running = true
	return nil
}

// Stop is idempotent: it releases the gateway's recorded context but never
// kills outstanding executions, since each ExecuteCommand call is
// self-contained.
func (g *Gateway) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
}

// IsRunning reports whether Start has been called without a subsequent Stop.
func (g *Gateway) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// CurrentContext returns the context Start was most recently called with.
func (g *Gateway) CurrentContext() provider.ContextInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ctx
}

// ListContexts returns the single context this Gateway instance knows
// about. Multi-context discovery (e.g. enumerating AWS profiles from a
// credentials file) is left to the outer CLI, an external collaborator.
func (g *Gateway) ListContexts() []provider.ContextInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.ctx.Provider == "" {
		return nil
	}
	return []provider.ContextInfo{g.ctx}
}

// ExecuteCommand runs the C5 algorithm: NL-interpret if needed, parse into
// pipeline stages, classify and validate stage 0, then execute.
func (g *Gateway) ExecuteCommand(ctx context.Context, text string) executor.Result {
	canonical := command.Canonicalize(text)

	if !hasProviderPrefix(canonical, g.spec.Prefixes) {
		resolved := g.interpreter.Interpret(canonical)
		if resolved == nlinterp.Unknown {
			return validationError("cannot interpret command")
		}
		canonical = resolved
	}

	stages, err := pipeline.Parse(canonical)
	if err != nil {
		return validationError(err.Error())
	}
	if err := pipeline.Validate(stages, g.spec.Prefixes); err != nil {
		return validationError(err.Error())
	}

	classification := policy.Classify(g.spec, stages[0].Tokens)
	decision, err := g.policyEng.Validate(ctx, classification, g.mode)
	if err != nil {
		return validationError(err.Error())
	}
	if !decision.Allow {
		return validationError(decision.Message())
	}

	opts := g.opts
	opts.Env = g.contextEnv(stages[0].Tokens)
	res, execErr := g.exec.Execute(ctx, stages, opts)
	if execErr != nil {
		return validationError(execErr.Error())
	}
	if decision.Warning != "" {
		res.Warning = decision.Warning
	}
	return res
}

// contextEnv injects the gateway's recorded context as environment
// variables, but only for flags the user's stage-0 tokens did not already
// supply.
func (g *Gateway) contextEnv(tokens []string) map[string]string {
	g.mu.RLock()
	ctxInfo := g.ctx
	g.mu.RUnlock()

	joined := strings.Join(tokens, " ")
	env := map[string]string{}

	set := func(flag, envVar, value string) {
		if value == "" {
			return
		}
		if strings.Contains(joined, flag) {
			return
		}
		env[envVar] = value
	}

	switch g.spec.Kind {
	case provider.AWS:
		set("--profile", "AWS_PROFILE", ctxInfo.AWSProfile)
		set("--region", "AWS_DEFAULT_REGION", ctxInfo.AWSRegion)
	case provider.Azure:
		set("--subscription", "AZURE_SUBSCRIPTION_ID", ctxInfo.AzureSubscription)
		env["AZURE_TENANT_ID"] = ctxInfo.AzureTenant
	case provider.GCP:
		set("--project", "GOOGLE_CLOUD_PROJECT", ctxInfo.GCPProject)
	}
	return env
}

func hasProviderPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if text == p || strings.HasPrefix(text, p+" ") {
			return true
		}
	}
	return false
}

func validationError(reason string) executor.Result {
	return executor.Result{
		Status:    executor.Error,
		ErrorKind: gwerrors.KindValidation,
		Output:    reason,
		Elapsed:   0 * time.Second,
	}
}
