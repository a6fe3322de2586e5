package tracing_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mesisim/tracing"
)

var _ = Describe("ConsoleTracer", func() {
	var (
		buf    *bytes.Buffer
		tracer *tracing.ConsoleTracer
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		tracer = tracing.NewConsoleTracer(buf)
	})

	It("should print the round banner", func() {
		tracer.TraceTick(1)

		Expect(buf.String()).To(Equal("\nClock tick\n"))
	})

	It("should print reads", func() {
		tracer.TraceAccess(tracing.Access{Core: 1, Op: "RD", Addr: 5, Data: 10})

		Expect(buf.String()).To(
			Equal("Core 1 Reading from address 05: 10\n"))
	})

	It("should print writes", func() {
		tracer.TraceAccess(tracing.Access{Core: 0, Op: "WR", Addr: 3, Data: 7})

		Expect(buf.String()).To(
			Equal("Core 0 Writing   to address 03: 07\n"))
	})
})
