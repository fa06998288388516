package gateway_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kishhcodes/cloudgate/pkg/executor"
	"github.com/kishhcodes/cloudgate/pkg/gateway"
	"github.com/kishhcodes/cloudgate/pkg/policy"
	"github.com/kishhcodes/cloudgate/pkg/provider"
)

func TestGateway(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gateway Suite")
}

// fakeSpec stands in for a real cloud CLI: "echo" is the binary, any verb
// is read-only except the single block-listed "dangerous" verb.
var fakeSpec = provider.Spec{
	Kind:          provider.AWS,
	Prefixes:      []string{"echo"},
	ReadOnlyVerbs: []string{"list-*"},
	BlockList: []provider.BlockListEntry{
		{Category: provider.CategoryIdentity, Tier: provider.TierCritical, Pattern: "dangerous"},
	},
	NLDictionary: []provider.NLEntry{
		{Phrase: "list my vms", Command: `echo '{"name":"x"}'`},
	},
	AuthErrorPatterns: []string{"no credentials"},
}

var _ = Describe("Gateway", func() {
	var (
		ctx context.Context
		gw  *gateway.Gateway
	)

	BeforeEach(func() {
		ctx = context.Background()
		engine, err := policy.NewEngine(ctx)
		Expect(err).NotTo(HaveOccurred())

		gw = gateway.New(gateway.Config{
			Spec:   fakeSpec,
			Policy: engine,
			Exec:   executor.New(nil, nil),
			Mode:   policy.Strict,
		})
		Expect(gw.Start(provider.ContextInfo{})).To(Succeed())
	})

	It("resolves NL text and executes it (S1 analogue)", func() {
		res := gw.ExecuteCommand(ctx, "list my vms")
		Expect(res.Status).To(Equal(executor.Success))
		Expect(res.Structured).To(HaveKeyWithValue("name", "x"))
	})

	It("denies a block-listed verb under Strict mode (S2 analogue)", func() {
		res := gw.ExecuteCommand(ctx, "echo dangerous --user-name evil")
		Expect(res.Status).To(Equal(executor.Error))
		Expect(res.Output).To(ContainSubstring("category=identity"))
	})

	It("returns ValidationError for unrecognized NL text", func() {
		res := gw.ExecuteCommand(ctx, "order me a pizza")
		Expect(res.Status).To(Equal(executor.Error))
		Expect(res.Output).To(ContainSubstring("cannot interpret"))
	})

	It("reports IsRunning and Stop correctly", func() {
		Expect(gw.IsRunning()).To(BeTrue())
		gw.Stop()
		Expect(gw.IsRunning()).To(BeFalse())
		gw.Stop()
		Expect(gw.IsRunning()).To(BeFalse())
	})

	It("lists the single context it was started with", func() {
		contexts := gw.ListContexts()
		Expect(contexts).To(HaveLen(1))
		Expect(contexts[0].Current).To(BeTrue())
	})
})
