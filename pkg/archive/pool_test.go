package archive_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/archive"
	"github.com/Gorgooo61/AI-character/pkg/eventstream"
	"github.com/Gorgooo61/AI-character/pkg/storage"
	"github.com/Gorgooo61/AI-character/pkg/storage/inmemory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.TurnCompletedEvent
	err    error
}

func (r *recordingPublisher) PublishTurn(_ context.Context, e *eventstream.TurnCompletedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) Events() []*eventstream.TurnCompletedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*eventstream.TurnCompletedEvent(nil), r.events...)
}

type failingDriver struct{ storage.Driver }

func (failingDriver) Put(context.Context, *storage.Turn) (bool, error) {
	return false, errors.New("disk full")
}

func job(id string) archive.Job {
	now := time.Now().UTC()
	return archive.Job{
		TurnID:      id,
		UserText:    "hello",
		Assistant:   "hi",
		Emotion:     "joy",
		StartedAt:   now.Add(-time.Second),
		CompletedAt: now,
	}
}

var _ = Describe("Pool", func() {
	var (
		driver    *inmemory.Driver
		publisher *recordingPublisher
		pool      *archive.Pool
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		publisher = &recordingPublisher{}

		var err error
		pool, err = archive.NewPool(&archive.Config{
			Driver:    driver,
			Publisher: publisher,
			Source:    eventstream.EventSource{Character: "Mika", Generator: "ollama"},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("requires a storage driver", func() {
		_, err := archive.NewPool(&archive.Config{})
		Expect(err).To(MatchError(ContainSubstring("driver is required")))
	})

	It("persists and publishes enqueued turns once drained", func() {
		Expect(pool.Enqueue(job("t1"))).To(BeTrue())
		Expect(pool.Enqueue(job("t2"))).To(BeTrue())
		Expect(pool.Close()).To(Succeed())

		turns, err := driver.List(context.Background(), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(turns).To(HaveLen(2))

		events := publisher.Events()
		Expect(events).To(HaveLen(2))
		Expect(events[0].Source.Character).To(Equal("Mika"))
		Expect(events[0].EventType).To(Equal(eventstream.EventTypeTurnCompleted))
	})

	It("does not republish a duplicate turn", func() {
		Expect(pool.Enqueue(job("dup"))).To(BeTrue())
		Expect(pool.Enqueue(job("dup"))).To(BeTrue())
		Expect(pool.Close()).To(Succeed())

		Expect(publisher.Events()).To(HaveLen(1))
	})

	It("keeps archiving when publishing fails", func() {
		publisher.err = errors.New("broker down")
		Expect(pool.Enqueue(job("t1"))).To(BeTrue())
		Expect(pool.Close()).To(Succeed())

		_, err := driver.Get(context.Background(), "t1")
		Expect(err).NotTo(HaveOccurred())
	})

	It("skips publishing when storage fails", func() {
		p, err := archive.NewPool(&archive.Config{Driver: failingDriver{}, Publisher: publisher})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Enqueue(job("t1"))).To(BeTrue())
		Expect(p.Close()).To(Succeed())
		Expect(publisher.Events()).To(BeEmpty())
		Expect(pool.Close()).To(Succeed())
	})

	It("drops jobs after Close and closes idempotently", func() {
		Expect(pool.Close()).To(Succeed())
		Expect(pool.Close()).To(Succeed())
		Expect(pool.Enqueue(job("late"))).To(BeFalse())
	})

	It("drops jobs when the queue is full", func() {
		blocking := &blockingDriver{started: make(chan struct{}), release: make(chan struct{})}
		p, err := archive.NewPool(&archive.Config{Driver: blocking, NumWorkers: 1, QueueSize: 1})
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Enqueue(job("a"))).To(BeTrue())
		Eventually(blocking.started).Should(BeClosed())
		Expect(p.Enqueue(job("b"))).To(BeTrue())
		Expect(p.Enqueue(job("c"))).To(BeFalse())

		close(blocking.release)
		Expect(p.Close()).To(Succeed())
		Expect(pool.Close()).To(Succeed())
	})
})

type blockingDriver struct {
	storage.Driver
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (b *blockingDriver) Put(context.Context, *storage.Turn) (bool, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return true, nil
}
