package shortterm_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/memory/shortterm"
)

var _ = Describe("Store", func() {
	var (
		now   time.Time
		store *shortterm.Store
		seq   int
	)

	BeforeEach(func() {
		now = time.Unix(1700000000, 0)
		seq = 0
		store = shortterm.NewStore(shortterm.Config{
			TTL: 300 * time.Second,
			Now: func() time.Time { return now },
			NewID: func() string {
				seq++
				return fmt.Sprintf("turn-%d", seq)
			},
		})
	})

	Describe("NewStore", func() {
		It("applies the default retention window", func() {
			s := shortterm.NewStore(shortterm.Config{})
			Expect(s.TTL()).To(Equal(shortterm.DefaultTTL))
		})

		It("generates unique ids by default", func() {
			s := shortterm.NewStore(shortterm.Config{})
			a := s.AddPending("one")
			b := s.AddPending("two")
			Expect(a).NotTo(Equal(b))
			Expect(a).To(HaveLen(32))
		})
	})

	Describe("AddPending", func() {
		It("appends pending turns in insertion order", func() {
			store.AddPending("first")
			store.AddPending("second")

			turns := store.Turns()
			Expect(turns).To(HaveLen(2))
			Expect(turns[0].UserText).To(Equal("first"))
			Expect(turns[1].UserText).To(Equal("second"))
			Expect(turns[0].Pending()).To(BeTrue())
		})
	})

	Describe("Complete", func() {
		It("fills the assistant text once", func() {
			id := store.AddPending("hello")
			Expect(store.Complete(id, "hi there")).To(BeTrue())
			Expect(store.Turns()[0].AssistantText).To(Equal("hi there"))

			Expect(store.Complete(id, "again")).To(BeFalse())
			Expect(store.Turns()[0].AssistantText).To(Equal("hi there"))
		})

		It("reports a miss for unknown ids", func() {
			Expect(store.Complete("nope", "text")).To(BeFalse())
		})

		It("reports a miss for evicted turns", func() {
			id := store.AddPending("hello")
			now = now.Add(301 * time.Second)
			Expect(store.Complete(id, "late")).To(BeFalse())
			Expect(store.Len()).To(BeZero())
		})

		It("rejects empty assistant text", func() {
			id := store.AddPending("hello")
			Expect(store.Complete(id, "")).To(BeFalse())
			Expect(store.Turns()[0].Pending()).To(BeTrue())
		})
	})

	Describe("eviction", func() {
		It("keeps only turns younger than the retention window after a mutation", func() {
			store.AddPending("old")
			now = now.Add(200 * time.Second)
			store.AddPending("middle")
			now = now.Add(100 * time.Second)
			store.AddPending("new")

			turns := store.Turns()
			Expect(turns).To(HaveLen(2))
			for _, t := range turns {
				Expect(now.Sub(t.CreatedAt)).To(BeNumerically("<", 300*time.Second))
			}
			Expect(turns[0].UserText).To(Equal("middle"))
		})

		It("sweeps on demand", func() {
			store.AddPending("old")
			now = now.Add(time.Hour)
			Expect(store.Sweep()).To(Equal(1))
			Expect(store.Turns()).To(BeEmpty())
		})
	})

	Describe("LatestPendingID", func() {
		It("returns false when nothing is pending", func() {
			_, ok := store.LatestPendingID()
			Expect(ok).To(BeFalse())
		})

		It("returns the newest pending turn", func() {
			first := store.AddPending("one")
			second := store.AddPending("two")
			Expect(store.Complete(second, "done")).To(BeTrue())

			id, ok := store.LatestPendingID()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal(first))
		})
	})

	Describe("FuzzySearch", func() {
		It("never returns the just-started turn when excluding it", func() {
			store.AddPending("hello")

			_, ok := store.FuzzySearch("hello", 70, true)
			Expect(ok).To(BeFalse())

			t, ok := store.FuzzySearch("hello", 70, false)
			Expect(ok).To(BeTrue())
			Expect(t.UserText).To(Equal("hello"))
		})

		It("returns the best match above the threshold", func() {
			a := store.AddPending("I like pizza with olives")
			Expect(store.Complete(a, "noted")).To(BeTrue())
			b := store.AddPending("what is the weather like")
			Expect(store.Complete(b, "sunny")).To(BeTrue())
			store.AddPending("pizza")

			t, ok := store.FuzzySearch("pizza", 70, true)
			Expect(ok).To(BeTrue())
			Expect(t.ID).To(Equal(a))
			Expect(t.AssistantText).To(Equal("noted"))
		})

		It("keeps the oldest turn on equal scores", func() {
			a := store.AddPending("pizza")
			Expect(store.Complete(a, "first")).To(BeTrue())
			b := store.AddPending("pizza")
			Expect(store.Complete(b, "second")).To(BeTrue())

			t, ok := store.FuzzySearch("pizza", 70, true)
			Expect(ok).To(BeTrue())
			Expect(t.ID).To(Equal(a))
		})

		It("returns nothing below the threshold", func() {
			a := store.AddPending("completely unrelated words")
			Expect(store.Complete(a, "ok")).To(BeTrue())

			_, ok := store.FuzzySearch("zzzz", 70, true)
			Expect(ok).To(BeFalse())
		})

		It("ignores turns past the retention window without a sweep", func() {
			a := store.AddPending("I like pizza")
			Expect(store.Complete(a, "noted")).To(BeTrue())

			now = now.Add(300 * time.Second)

			_, ok := store.FuzzySearch("pizza", 70, false)
			Expect(ok).To(BeFalse())
			Expect(store.Len()).To(Equal(1))
		})
	})

	Describe("pending turn discipline", func() {
		It("accepts a second pending turn and tracks the newest one", func() {
			first := store.AddPending("one")
			second := store.AddPending("two")

			id, ok := store.LatestPendingID()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal(second))

			Expect(store.Complete(first, "late reply")).To(BeTrue())
			Expect(store.Complete(second, "reply")).To(BeTrue())
			_, ok = store.LatestPendingID()
			Expect(ok).To(BeFalse())
		})
	})
})
