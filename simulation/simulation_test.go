package simulation_test

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mesisim/cache"
	"github.com/sarchlab/mesisim/insts"
	"github.com/sarchlab/mesisim/simulation"
)

func wr(addr uint64, value byte) insts.Inst {
	return insts.Inst{Kind: insts.Write, Addr: addr, Data: value}
}

func rd(addr uint64) insts.Inst {
	return insts.Inst{Kind: insts.Read, Addr: addr}
}

var _ = Describe("Simulation", func() {
	It("should propagate a written value to a later reader", func() {
		sim := simulation.MakeBuilder().
			WithSources(
				insts.NewSliceSource(wr(5, 10)),
				insts.NewSliceSource(rd(23), rd(5)),
			).
			WithInvariantChecks().
			Build()

		Expect(sim.Run()).To(Succeed())
		sim.Terminate()

		caches, _ := sim.Controller().Snapshot()
		Expect(caches[0][1]).To(Equal(
			cache.Line{Addr: 5, Data: 10, State: cache.Shared}))
		Expect(caches[1][1]).To(Equal(
			cache.Line{Addr: 5, Data: 10, State: cache.Shared}))
	})

	It("should keep repeated writes in the cache only", func() {
		sim := simulation.MakeBuilder().
			WithSources(insts.NewSliceSource(wr(3, 7), wr(3, 9))).
			WithInvariantChecks().
			Build()

		Expect(sim.Run()).To(Succeed())
		sim.Terminate()

		caches, memory := sim.Controller().Snapshot()
		Expect(caches[0][1]).To(Equal(
			cache.Line{Addr: 3, Data: 9, State: cache.Modified}))
		Expect(memory[3]).To(Equal(byte(0)))
	})

	It("should render the console trace", func() {
		buf := &bytes.Buffer{}
		sim := simulation.MakeBuilder().
			WithSources(insts.NewSliceSource(wr(5, 10), rd(5))).
			WithConsoleTrace(buf).
			Build()

		Expect(sim.Run()).To(Succeed())
		sim.Terminate()

		Expect(buf.String()).To(ContainSubstring("Clock tick"))
		Expect(buf.String()).To(ContainSubstring(
			"Core 0 Writing   to address 05: 10"))
		Expect(buf.String()).To(ContainSubstring(
			"Core 0 Reading from address 05: 10"))
	})

	It("should record the trace into a database", func() {
		dbPath := filepath.Join(GinkgoT().TempDir(), "trace")

		sim := simulation.MakeBuilder().
			WithSources(insts.NewSliceSource(wr(5, 10), rd(5))).
			WithDBTrace(dbPath).
			Build()

		Expect(sim.Run()).To(Succeed())
		sim.Terminate()

		db, err := sql.Open("sqlite3", dbPath+".sqlite3")
		Expect(err).To(BeNil())
		defer db.Close()

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM trace").Scan(&count)
		Expect(err).To(BeNil())
		Expect(count).To(Equal(2))
	})

	It("should record the trace into a CSV file", func() {
		csvPath := filepath.Join(GinkgoT().TempDir(), "trace.csv")

		sim := simulation.MakeBuilder().
			WithSources(insts.NewSliceSource(wr(5, 10))).
			WithCSVTrace(csvPath).
			Build()

		Expect(sim.Run()).To(Succeed())
		sim.Terminate()

		content, err := os.ReadFile(csvPath)
		Expect(err).To(BeNil())
		Expect(string(content)).To(ContainSubstring("1, 0, WR, 5, 10"))
	})

	It("should report an out-of-range address as an error", func() {
		sim := simulation.MakeBuilder().
			WithMemorySize(8).
			WithSources(insts.NewSliceSource(rd(8))).
			Build()

		Expect(sim.Run()).NotTo(Succeed())
	})

	It("should give each run a unique ID", func() {
		sim1 := simulation.MakeBuilder().
			WithSources(insts.NewSliceSource()).Build()
		sim2 := simulation.MakeBuilder().
			WithSources(insts.NewSliceSource()).Build()

		Expect(sim1.ID()).NotTo(Equal(sim2.ID()))
	})
})

var _ = Describe("Builder", func() {
	It("should panic without sources", func() {
		Expect(func() { simulation.MakeBuilder().Build() }).To(Panic())
	})

	It("should panic when a monitor port is set without monitoring", func() {
		Expect(func() {
			simulation.MakeBuilder().
				WithSources(insts.NewSliceSource()).
				WithMonitorPort(8080).
				Build()
		}).To(Panic())
	})

	It("should panic on a zero cache size", func() {
		Expect(func() {
			simulation.MakeBuilder().
				WithSources(insts.NewSliceSource()).
				WithCacheSize(0).
				Build()
		}).To(Panic())
	})
})
