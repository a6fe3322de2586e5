package insts

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decode", func() {
	It("should decode a read", func() {
		inst, err := Decode("RD 5")

		Expect(err).To(BeNil())
		Expect(inst).To(Equal(Inst{Kind: Read, Addr: 5}))
	})

	It("should decode a write", func() {
		inst, err := Decode("WR 3 17")

		Expect(err).To(BeNil())
		Expect(inst).To(Equal(Inst{Kind: Write, Addr: 3, Data: 17}))
	})

	It("should tolerate extra whitespace", func() {
		inst, err := Decode("  WR   12    255 ")

		Expect(err).To(BeNil())
		Expect(inst).To(Equal(Inst{Kind: Write, Addr: 12, Data: 255}))
	})

	It("should reject an unknown opcode", func() {
		_, err := Decode("XX 5")

		Expect(err).To(MatchError(ErrDecode))
	})

	It("should reject an empty line", func() {
		_, err := Decode("   ")

		Expect(err).To(MatchError(ErrDecode))
	})

	It("should reject a read without an address", func() {
		_, err := Decode("RD")

		Expect(err).To(MatchError(ErrDecode))
	})

	It("should reject a write without a value", func() {
		_, err := Decode("WR 3")

		Expect(err).To(MatchError(ErrDecode))
	})

	It("should reject a non-numeric address", func() {
		_, err := Decode("RD abc")

		Expect(err).To(MatchError(ErrDecode))
	})

	It("should reject a value that does not fit in a byte", func() {
		_, err := Decode("WR 3 256")

		Expect(err).To(MatchError(ErrDecode))
	})

	It("should reject trailing operands", func() {
		_, err := Decode("RD 3 4")

		Expect(err).To(MatchError(ErrDecode))
	})
})
