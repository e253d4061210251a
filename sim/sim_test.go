package sim_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/timing/addr"
	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/timing/config"
	"github.com/sarchlab/cachesim/trace"
)

func statuses(r *sim.LevelResult) []cache.Status {
	s := make([]cache.Status, len(r.Refs))
	for i, ref := range r.Refs {
		s[i] = ref.Status
	}
	return s
}

var _ = Describe("RunLevel", func() {
	var l1 *config.LevelConfig

	BeforeEach(func() {
		l1 = config.DefaultL1Config()
		l1.CacheSize = 2
		l1.NumBlocksPerSet = 2
	})

	It("should evict the least recently used tag", func() {
		r, err := sim.RunLevel("l1", l1, []uint64{0, 1, 0, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(statuses(r)).To(Equal([]cache.Status{
			cache.Miss, cache.Miss, cache.Hit, cache.Miss,
		}))
		Expect(r.Cache.Tags(0)).To(ConsistOf(addr.Some(0), addr.Some(2)))
		Expect(r.TotalLatency()).To(Equal(uint64(61)))
	})

	It("should evict the most recently used tag", func() {
		l1.ReplacementPolicy = "MRU"
		r, err := sim.RunLevel("l1", l1, []uint64{0, 1, 0, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Cache.Tags(0)).To(ConsistOf(addr.Some(1), addr.Some(2)))
	})

	It("should decode with the expanded address width", func() {
		r, err := sim.RunLevel("l1", l1, []uint64{300})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Geometry.Layout.AddrBits).To(Equal(9))
		Expect(r.Refs[0].Tag).To(Equal(addr.Some(300)))
	})

	It("should fail on an empty trace", func() {
		_, err := sim.RunLevel("l1", l1, nil)
		Expect(errors.Is(err, config.ErrEmptyTrace)).To(BeTrue())
	})

	It("should fail on a bad configuration", func() {
		l1.CacheSize = 6
		r, err := sim.RunLevel("l1", l1, []uint64{1})
		Expect(r).To(BeNil())
		var cfgErr *config.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})
})

var _ = Describe("Simulator", func() {
	var (
		mockCtrl *gomock.Controller
		sink     *MockSink
		h        *config.HierarchyConfig
		tmpDir   string
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sink = NewMockSink(mockCtrl)

		h = config.DefaultHierarchyConfig()
		h.L1.CacheSize = 4
		h.L2.CacheSize = 16
		h.L2.NumBlocksPerSet = 2

		var err error
		tmpDir, err = os.MkdirTemp("", "cachesim-sim-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
		os.RemoveAll(tmpDir)
	})

	It("should run a single level", func() {
		sink.EXPECT().RecordLevel(gomock.Any()).Return(nil).Times(1)
		s := sim.NewSimulator(sim.WithSink(sink))

		results, err := s.Run(h, []uint64{1, 2, 1, 5})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Name).To(Equal("l1"))
	})

	It("should feed L1 misses to L2", func() {
		h.TwoLevel = true
		addrs := []uint64{1, 2, 1, 5, 9, 1, 13, 5, 2}

		var recorded []string
		sink.EXPECT().RecordLevel(gomock.Any()).DoAndReturn(
			func(r *sim.LevelResult) error {
				recorded = append(recorded, r.Name)
				return nil
			}).Times(2)

		s := sim.NewSimulator(sim.WithSink(sink))
		results, err := s.Run(h, addrs)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(recorded).To(Equal([]string{"l1", "l2"}))

		l2 := results[1]
		l2Addrs := make([]uint64, len(l2.Refs))
		for i, ref := range l2.Refs {
			l2Addrs[i] = ref.Address
		}
		Expect(l2Addrs).To(Equal(results[0].Misses()))

		standalone, err := sim.RunLevel("l2", h.L2, results[0].Misses())
		Expect(err).NotTo(HaveOccurred())
		Expect(statuses(standalone)).To(Equal(statuses(l2)))
	})

	It("should not run L2 when L1 fails", func() {
		h.TwoLevel = true
		h.L1.NumWordsPerBlock = 3
		sink.EXPECT().RecordLevel(gomock.Any()).Times(0)

		s := sim.NewSimulator(sim.WithSink(sink))
		results, err := s.Run(h, []uint64{1, 2})
		Expect(err).To(HaveOccurred())
		Expect(results).To(BeEmpty())
	})

	It("should run L2 on the cold miss of a one-address trace", func() {
		h.TwoLevel = true
		h.L2.NumAddrBits = 4
		sink.EXPECT().RecordLevel(gomock.Any()).Return(nil).Times(2)

		s := sim.NewSimulator(sim.WithSink(sink))
		results, err := s.Run(h, []uint64{3})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[1].Refs).To(HaveLen(1))
		Expect(results[1].Refs[0].Status).To(Equal(cache.Miss))
	})

	It("should fail L2 after L1 is recorded when L2 cannot fit the miss addresses", func() {
		h.TwoLevel = true
		sink.EXPECT().RecordLevel(gomock.Any()).Return(nil).Times(1)

		s := sim.NewSimulator(sim.WithSink(sink))
		results, err := s.Run(h, []uint64{3})

		var cfgErr *config.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		Expect(errors.Is(err, addr.ErrNegativeTagBits)).To(BeTrue())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Name).To(Equal("l1"))
	})

	It("should call level start hooks before each level", func() {
		h.TwoLevel = true
		h.L2.NumAddrBits = 4

		var events []string
		sink.EXPECT().RecordLevel(gomock.Any()).DoAndReturn(
			func(r *sim.LevelResult) error {
				events = append(events, "record "+r.Name)
				return nil
			}).Times(2)

		s := sim.NewSimulator(
			sim.WithSink(sink),
			sim.WithLevelStartHook(func(level string) {
				events = append(events, "start "+level)
			}),
		)
		_, err := s.Run(h, []uint64{3, 7})
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(Equal([]string{
			"start l1", "record l1", "start l2", "record l2",
		}))
	})

	It("should write the miss file of each level", func() {
		h.TwoLevel = true
		sink.EXPECT().RecordLevel(gomock.Any()).Return(nil).Times(2)

		l1Path := filepath.Join(tmpDir, "l1.miss")
		l2Path := filepath.Join(tmpDir, "l2.miss")
		s := sim.NewSimulator(
			sim.WithSink(sink),
			sim.WithMissFile("l1", l1Path),
			sim.WithMissFile("l2", l2Path),
		)

		results, err := s.Run(h, []uint64{1, 2, 1, 5, 1})
		Expect(err).NotTo(HaveOccurred())

		l1Misses, err := trace.ReadFile(l1Path)
		Expect(err).NotTo(HaveOccurred())
		Expect(l1Misses).To(Equal(results[0].Misses()))

		l2Misses, err := trace.ReadFile(l2Path)
		Expect(err).NotTo(HaveOccurred())
		Expect(l2Misses).To(Equal(results[1].Misses()))
	})

	It("should stop when a sink fails", func() {
		h.TwoLevel = true
		sink.EXPECT().RecordLevel(gomock.Any()).Return(errors.New("disk full")).Times(1)

		s := sim.NewSimulator(sim.WithSink(sink))
		_, err := s.Run(h, []uint64{1, 2})
		Expect(err).To(MatchError(ContainSubstring("disk full")))
	})

	It("should pass the akita cross check", func() {
		h.TwoLevel = true
		h.L2.ReplacementPolicy = "mru"
		sink.EXPECT().RecordLevel(gomock.Any()).Return(nil).Times(2)

		s := sim.NewSimulator(sim.WithSink(sink), sim.WithCrossCheck(true))
		_, err := s.Run(h, []uint64{0, 4, 8, 0, 4, 12, 16, 0, 3, 7, 3})
		Expect(err).NotTo(HaveOccurred())
	})
})
