package sqlite_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/storage"
	"github.com/Gorgooo61/AI-character/pkg/storage/sqlite"
)

var _ = Describe("Driver", func() {
	var (
		driver *sqlite.Driver
		ctx    context.Context
		base   time.Time
	)

	turn := func(id string, offset time.Duration) *storage.Turn {
		return &storage.Turn{
			ID:            id,
			UserText:      "hello " + id,
			AssistantText: "hi " + id,
			Emotion:       "joy",
			StartedAt:     base.Add(offset - time.Second),
			CompletedAt:   base.Add(offset),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

		var err error
		driver, err = sqlite.NewDriver(ctx, ":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(driver.Close()).To(Succeed())
	})

	It("inserts a turn and ignores duplicates", func() {
		inserted, err := driver.Put(ctx, turn("a", 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(BeTrue())

		inserted, err = driver.Put(ctx, turn("a", 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted).To(BeFalse())
	})

	It("round-trips every column", func() {
		t := turn("a", 0)
		t.Autonomous = true
		t.UserText = ""
		_, err := driver.Put(ctx, t)
		Expect(err).NotTo(HaveOccurred())

		got, err := driver.Get(ctx, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.UserText).To(BeEmpty())
		Expect(got.AssistantText).To(Equal("hi a"))
		Expect(got.Emotion).To(Equal("joy"))
		Expect(got.Autonomous).To(BeTrue())
		Expect(got.StartedAt.Equal(t.StartedAt)).To(BeTrue())
		Expect(got.CompletedAt.Equal(t.CompletedAt)).To(BeTrue())
	})

	It("returns NotFoundError for missing turns", func() {
		_, err := driver.Get(ctx, "missing")
		Expect(err).To(MatchError(storage.ErrNotFound))
	})

	It("lists newest first and honours the limit", func() {
		for i, id := range []string{"old", "mid", "new"} {
			_, err := driver.Put(ctx, turn(id, time.Duration(i)*time.Second))
			Expect(err).NotTo(HaveOccurred())
		}

		all, err := driver.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
		Expect(all[0].ID).To(Equal("new"))
		Expect(all[2].ID).To(Equal("old"))

		limited, err := driver.List(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(limited).To(HaveLen(2))
	})

	It("persists to a file across reopen", func() {
		path := filepath.Join(GinkgoT().TempDir(), "turns.db")
		d, err := sqlite.NewDriver(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		_, err = d.Put(ctx, turn("kept", 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Close()).To(Succeed())

		d, err = sqlite.NewDriver(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()
		got, err := d.Get(ctx, "kept")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.UserText).To(Equal("hello kept"))
	})
})
