package remediation_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kishhcodes/cloudgate/pkg/audit"
	"github.com/kishhcodes/cloudgate/pkg/handler"
	"github.com/kishhcodes/cloudgate/pkg/playbook"
	"github.com/kishhcodes/cloudgate/pkg/ratelimit"
	"github.com/kishhcodes/cloudgate/pkg/remediation"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

func TestRemediation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Remediation Engine Suite")
}

func stubHandler(status handler.Status, token string) handler.Func {
	return func(ctx context.Context, action playbook.Action, dryRun bool, runCtx handler.Context) handler.Result {
		return handler.Result{Status: status, Message: "ok", RollbackToken: token}
	}
}

func newRegistryWith(kinds map[string]handler.Func) *handler.Registry {
	r := handler.NewRegistry()
	for k, fn := range kinds {
		r.Register(k, fn)
	}
	return r
}

func twoActionPlaybook(requiresApproval bool) playbook.Playbook {
	b := playbook.NewBuilder("PB-TEST", "test playbook").RequireApproval(requiresApproval).EnableRollback(true)
	_ = b.AddAction("first", "fake", map[string]any{}, "undo-first", "")
	_ = b.AddAction("second", "notification", map[string]any{}, "", "")
	pb, err := b.Build()
	if err != nil {
		panic(err)
	}
	return pb
}

var _ = Describe("Engine", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("runs a no-approval playbook to completion", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, "undo-first"),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(false)

		exec, err := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(exec.Status).To(Equal(remediation.Running))

		Eventually(func() remediation.Status {
			got, _ := engine.Get(exec.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Completed))

		final, _ := engine.Get(exec.ID)
		Expect(final.ActionResults).To(HaveLen(2))
	})

	It("stops at the first failing action and skips the rest", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Failed, ""),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(false)

		exec, err := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() remediation.Status {
			got, _ := engine.Get(exec.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Failed))

		final, _ := engine.Get(exec.ID)
		Expect(final.ActionResults[0].Status).To(Equal(handler.Failed))
		Expect(final.ActionResults[1].Status).To(Equal(handler.Skipped))
	})

	It("holds at AwaitingApproval until approve is called", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, "undo-first"),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(true)

		exec, err := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(exec.Status).To(Equal(remediation.AwaitingApproval))
		Expect(exec.ActionResults).To(BeEmpty())

		Expect(engine.Approve(ctx, exec.ID, "bob", pb, playbook.Finding{ID: "f1"})).To(Succeed())

		Eventually(func() remediation.Status {
			got, _ := engine.Get(exec.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Completed))

		final, _ := engine.Get(exec.ID)
		Expect(final.Approver).To(Equal("bob"))
	})

	It("rejects from AwaitingApproval and never dispatches", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, ""),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(true)

		exec, err := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(err).NotTo(HaveOccurred())

		Expect(engine.Reject(ctx, exec.ID, "bob", "too risky")).To(Succeed())

		final, _ := engine.Get(exec.ID)
		Expect(final.Status).To(Equal(remediation.Rejected))
		Expect(final.RejectionReason).To(Equal("too risky"))
		Expect(final.ActionResults).To(BeEmpty())
	})

	It("rejects approve called twice with a StateError", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, ""),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(true)

		exec, _ := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(engine.Approve(ctx, exec.ID, "bob", pb, playbook.Finding{ID: "f1"})).To(Succeed())

		err := engine.Approve(ctx, exec.ID, "carol", pb, playbook.Finding{ID: "f1"})
		Expect(err).To(HaveOccurred())
		Expect(gwerrors.IsKind(err, gwerrors.KindState)).To(BeTrue())
	})

	It("rolls back a completed execution in reverse order", func() {
		var rolledBack []string
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, "undo-first"),
			"notification": stubHandler(handler.Completed, ""),
		})
		reg.RegisterRollback("fake", func(ctx context.Context, in handler.RollbackInput) handler.Result {
			rolledBack = append(rolledBack, in.Token)
			return handler.Result{Status: handler.RolledBack}
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(false)

		exec, _ := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Eventually(func() remediation.Status {
			got, _ := engine.Get(exec.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Completed))

		Expect(engine.Rollback(ctx, exec.ID)).To(Succeed())

		final, _ := engine.Get(exec.ID)
		Expect(final.Status).To(Equal(remediation.RolledBack))
		Expect(final.InspectionFlag).To(BeFalse())
		Expect(rolledBack).To(Equal([]string{"undo-first"}))
	})

	// S7: a rollback sub-handler failure is recorded per-action but the
	// overall terminal state remains RolledBack with InspectionFlag set.
	It("records a partial rollback failure without reopening Failed", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, "undo-first"),
			"notification": stubHandler(handler.Completed, ""),
		})
		reg.RegisterRollback("fake", func(ctx context.Context, in handler.RollbackInput) handler.Result {
			return handler.Result{Status: handler.Failed, Message: "rollback failed"}
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(false)

		exec, _ := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Eventually(func() remediation.Status {
			got, _ := engine.Get(exec.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Completed))

		Expect(engine.Rollback(ctx, exec.ID)).To(Succeed())

		final, _ := engine.Get(exec.ID)
		Expect(final.Status).To(Equal(remediation.RolledBack))
		Expect(final.InspectionFlag).To(BeTrue())
	})

	// S8: with a one-slot limiter, a second concurrent Execute returns
	// ResourceExhausted without mutating any execution state.
	It("returns ResourceExhausted when the concurrency limit is saturated", func() {
		release := make(chan struct{})
		blocking := func(ctx context.Context, action playbook.Action, dryRun bool, runCtx handler.Context) handler.Result {
			<-release
			return handler.Result{Status: handler.Completed}
		}
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         blocking,
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg, Limiter: ratelimit.NewInProcess(1)})
		pb := twoActionPlaybook(false)

		first, err := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(err).NotTo(HaveOccurred())

		_, err = engine.Execute(ctx, pb, playbook.Finding{ID: "f2"}, "alice", false)
		Expect(err).To(HaveOccurred())
		Expect(gwerrors.IsKind(err, gwerrors.KindResourceExhausted)).To(BeTrue())

		history := engine.History(remediation.HistoryFilter{}, 0)
		Expect(history).To(HaveLen(1))
		Expect(history[0].ID).To(Equal(first.ID))

		close(release)
		Eventually(func() remediation.Status {
			got, _ := engine.Get(first.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Completed))
	})

	It("returns HandlerMissing from Validate for an unregistered kind", func() {
		engine := remediation.New(remediation.Config{Registry: handler.NewRegistry()})
		pb := twoActionPlaybook(false)

		err := engine.Validate(pb)
		Expect(err).To(HaveOccurred())
		Expect(gwerrors.IsKind(err, gwerrors.KindHandlerMissing)).To(BeTrue())
	})

	It("skips a predicated action whose condition is false", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"aws":          stubHandler(handler.Completed, ""),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg})

		b := playbook.NewBuilder("PB-PREDICATED", "predicated").RequireApproval(false)
		_ = b.AddAction("stop", "aws", map[string]any{}, "", "finding.acknowledged == true")
		pb, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		exec, err := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() remediation.Status {
			got, _ := engine.Get(exec.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Completed))

		final, _ := engine.Get(exec.ID)
		Expect(final.ActionResults[0].Status).To(Equal(handler.Skipped))
	})

	It("writes one audit record per action plus lifecycle transitions", func() {
		sink := audit.NewInMemorySink()
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, ""),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg, Sink: sink})
		pb := twoActionPlaybook(false)

		exec, err := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() remediation.Status {
			got, _ := engine.Get(exec.ID)
			return got.Status
		}, "1s", "10ms").Should(Equal(remediation.Completed))

		records, err := sink.Query(ctx, audit.Filter{ExecutionID: exec.ID}, 0)
		Expect(err).NotTo(HaveOccurred())

		var actionRecords int
		for _, r := range records {
			if r.Action != "" {
				actionRecords++
			}
		}
		Expect(actionRecords).To(Equal(2))
	})

	It("orders History newest first and respects limit", func() {
		reg := newRegistryWith(map[string]handler.Func{
			"fake":         stubHandler(handler.Completed, ""),
			"notification": stubHandler(handler.Completed, ""),
		})
		engine := remediation.New(remediation.Config{Registry: reg})
		pb := twoActionPlaybook(false)

		first, _ := engine.Execute(ctx, pb, playbook.Finding{ID: "f1"}, "alice", false)
		time.Sleep(time.Millisecond)
		second, _ := engine.Execute(ctx, pb, playbook.Finding{ID: "f2"}, "alice", false)

		history := engine.History(remediation.HistoryFilter{}, 1)
		Expect(history).To(HaveLen(1))
		Expect(history[0].ID).To(Equal(second.ID))
		_ = first
	})
})
