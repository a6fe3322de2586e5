package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mesisim/cache"
)

var _ = Describe("Cache", func() {
	It("should start with all lines Invalid", func() {
		c := cache.New(2)

		Expect(c.NumLines()).To(Equal(2))
		Expect(c.Line(0).State).To(Equal(cache.Invalid))
		Expect(c.Line(1).State).To(Equal(cache.Invalid))
	})

	It("should map addresses to slots by modulo", func() {
		c := cache.New(2)

		Expect(c.SlotOf(0)).To(Equal(0))
		Expect(c.SlotOf(5)).To(Equal(1))
		Expect(c.SlotOf(6)).To(Equal(0))
	})

	It("should overwrite a resident line", func() {
		c := cache.New(2)

		c.SetLine(1, cache.Line{Addr: 5, Data: 10, State: cache.Modified})

		Expect(c.Line(1)).To(Equal(
			cache.Line{Addr: 5, Data: 10, State: cache.Modified}))
	})

	It("should change state in place", func() {
		c := cache.New(2)
		c.SetLine(0, cache.Line{Addr: 4, Data: 3, State: cache.Exclusive})

		c.SetState(0, cache.Shared)

		Expect(c.Line(0)).To(Equal(
			cache.Line{Addr: 4, Data: 3, State: cache.Shared}))
	})

	It("should snapshot lines by copy", func() {
		c := cache.New(2)
		c.SetLine(0, cache.Line{Addr: 2, Data: 1, State: cache.Shared})

		lines := c.Lines()
		lines[0].State = cache.Invalid

		Expect(c.Line(0).State).To(Equal(cache.Shared))
	})

	It("should panic when created without lines", func() {
		Expect(func() { cache.New(0) }).To(Panic())
	})
})

var _ = Describe("State", func() {
	It("should name all states", func() {
		Expect(cache.Invalid.String()).To(Equal("Invalid"))
		Expect(cache.Shared.String()).To(Equal("Shared"))
		Expect(cache.Exclusive.String()).To(Equal("Exclusive"))
		Expect(cache.Modified.String()).To(Equal("Modified"))
	})
})
