package agent_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/agent"
	"github.com/Gorgooo61/AI-character/pkg/generation"
	"github.com/Gorgooo61/AI-character/pkg/memory"
	"github.com/Gorgooo61/AI-character/pkg/memory/shortterm"
	"github.com/Gorgooo61/AI-character/pkg/status"
	testutils "github.com/Gorgooo61/AI-character/pkg/utils/test"
)

var _ = Describe("MergeBurst", func() {
	It("keeps the last item primary and lists earlier ones in order", func() {
		Expect(agent.MergeBurst([]string{"a", "b", "c"})).To(Equal("c (said earlier: a | b)"))
	})

	It("returns a single item unchanged", func() {
		Expect(agent.MergeBurst([]string{" hello "})).To(Equal("hello"))
	})

	It("drops blank items", func() {
		Expect(agent.MergeBurst([]string{"a", "  ", "b", ""})).To(Equal("b (said earlier: a)"))
		Expect(agent.MergeBurst([]string{" ", ""})).To(BeEmpty())
		Expect(agent.MergeBurst(nil)).To(BeEmpty())
	})
})

var _ = Describe("Result", func() {
	It("returns the value when there is no error", func() {
		Expect(agent.Ok("joy").Or("neutral")).To(Equal("joy"))
	})

	It("returns the fallback on error", func() {
		Expect(agent.Fail[string](errBoom).Or("neutral")).To(Equal("neutral"))
	})
})

var _ = Describe("DeferredQueue", func() {
	It("pops jobs in FIFO order", func() {
		var q agent.DeferredQueue
		q.Push(agent.DeferredJob{UserText: "1"})
		q.Push(agent.DeferredJob{UserText: "2"})
		Expect(q.Len()).To(Equal(2))

		j, ok := q.Pop()
		Expect(ok).To(BeTrue())
		Expect(j.UserText).To(Equal("1"))
		j, _ = q.Pop()
		Expect(j.UserText).To(Equal("2"))

		_, ok = q.Pop()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Loop", func() {
	var (
		ctx        context.Context
		bus        *status.Bus
		capturer   *testutils.MockCapturer
		generator  *testutils.MockGenerator
		classifier *testutils.MockClassifier
		player     *testutils.MockPlayer
		mem        *fakeMemory
		archiver   *fakeArchive
		animation  *fakeStopper
		clk        *clock
		settings   agent.Settings
	)

	newLoop := func() *agent.Loop {
		l, err := agent.New(agent.Config{
			Capture:    capturer,
			Generator:  generator,
			Classifier: classifier,
			Player:     player,
			Memory:     mem,
			Bus:        bus,
			Animation:  animation,
			Archive:    archiver,
			Settings:   settings,
			Now:        clk.Now,
		})
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	BeforeEach(func() {
		ctx = context.Background()
		bus = status.New()
		capturer = testutils.NewMockCapturer()
		generator = testutils.NewMockGenerator()
		generator.Default = "Nice to see you!"
		classifier = &testutils.MockClassifier{Label: "joy"}
		player = &testutils.MockPlayer{}
		mem = newFakeMemory(bus)
		archiver = &fakeArchive{}
		animation = &fakeStopper{}
		clk = newClock()

		settings = agent.DefaultSettings()
		settings.InputTimeout = 10 * time.Millisecond
		settings.SpeechPatience = 50 * time.Millisecond
		settings.SpeechPoll = 5 * time.Millisecond
		settings.IdleSilence = time.Minute
	})

	Describe("New", func() {
		It("requires its core collaborators", func() {
			_, err := agent.New(agent.Config{})
			Expect(err).To(MatchError(ContainSubstring("capture is required")))

			_, err = agent.New(agent.Config{Capture: capturer, Generator: generator, Memory: mem})
			Expect(err).To(MatchError(ContainSubstring("status bus is required")))
		})
	})

	Describe("a user turn", func() {
		It("runs context, generation, classification, completion and playback", func() {
			l := newLoop()
			capturer.Say("hello there")
			l.Tick(ctx)

			Expect(mem.Started()).To(Equal([]string{"hello there"}))

			reqs := generator.Requests()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Prompt).To(Equal("[USER]: hello there"))
			Expect(reqs[0].System).To(Equal(agent.DefaultSystemPrompt))
			Expect(reqs[0].MaxTokens).To(Equal(agent.DefaultMaxTokens))

			Expect(classifier.Inputs()).To(Equal([]string{"Nice to see you!"}))
			Expect(bus.String(status.EmotionLabel)).To(Equal("joy"))
			Expect(mem.Completed()).To(HaveKeyWithValue("turn-1", "Nice to see you!"))
			Expect(player.Played()).To(Equal([]testutils.Played{{Text: "Nice to see you!", Label: "joy"}}))

			Expect(l.Deferred().Len()).To(Equal(1))
			Expect(mem.Extracted()).To(BeEmpty())

			jobs := archiver.Jobs()
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].TurnID).To(Equal("turn-1"))
			Expect(jobs[0].UserText).To(Equal("hello there"))
			Expect(jobs[0].Emotion).To(Equal("joy"))
			Expect(jobs[0].Autonomous).To(BeFalse())
		})

		It("raises and clears new_input_pending and ai_generating", func() {
			l := newLoop()
			capturer.Say("hi")
			l.Tick(ctx)

			var pending, generating []any
			for _, ev := range bus.Drain() {
				switch ev.Field {
				case status.NewInputPending:
					pending = append(pending, ev.Value)
				case status.AIGenerating:
					generating = append(generating, ev.Value)
				}
			}
			Expect(pending).To(Equal([]any{true, false}))
			Expect(generating).To(Equal([]any{true, false}))
		})

		It("merges a burst of queued inputs into one turn", func() {
			l := newLoop()
			capturer.Say("a")
			capturer.Say("b")
			capturer.Say("c")
			l.Tick(ctx)

			Expect(mem.Started()).To(Equal([]string{"c (said earlier: a | b)"}))
			Expect(generator.Calls()).To(Equal(1))
		})

		It("falls back to neutral when classification fails", func() {
			classifier.Err = errBoom
			l := newLoop()
			capturer.Say("hi")
			l.Tick(ctx)

			Expect(bus.String(status.EmotionLabel)).To(Equal("neutral"))
			Expect(player.Played()[0].Label).To(Equal("neutral"))
		})

		It("falls back to neutral for unknown labels", func() {
			classifier.Label = "bored"
			l := newLoop()
			capturer.Say("hi")
			l.Tick(ctx)
			Expect(player.Played()[0].Label).To(Equal("neutral"))
		})

		It("skips the rest of the turn when generation fails", func() {
			generator.Err = errBoom
			l := newLoop()
			capturer.Say("hi")
			l.Tick(ctx)

			Expect(mem.Started()).To(HaveLen(1))
			Expect(mem.Completed()).To(BeEmpty())
			Expect(classifier.Inputs()).To(BeEmpty())
			Expect(player.Played()).To(BeEmpty())
			Expect(l.Deferred().Len()).To(Equal(0))
			Expect(archiver.Jobs()).To(BeEmpty())
			Expect(bus.Bool(status.NewInputPending)).To(BeFalse())
			Expect(bus.Bool(status.AIGenerating)).To(BeFalse())
		})

		It("treats an empty reply as a generation failure", func() {
			generator.Default = "   "
			l := newLoop()
			capturer.Say("hi")
			l.Tick(ctx)
			Expect(player.Played()).To(BeEmpty())
		})

		It("still plays when the turn expired before completion", func() {
			mem.CompleteMiss = true
			l := newLoop()
			capturer.Say("hi")
			l.Tick(ctx)
			Expect(player.Played()).To(HaveLen(1))
		})

		It("keeps going when the archive is full", func() {
			archiver.Reject = true
			l := newLoop()
			capturer.Say("hi")
			l.Tick(ctx)
			Expect(player.Played()).To(HaveLen(1))
		})

		It("waits for the user to stop speaking and picks up the rest", func() {
			l := newLoop()
			capturer.SetSpeaking(true)
			capturer.Say("first")

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(15 * time.Millisecond)
				capturer.Say("second")
				capturer.SetSpeaking(false)
			}()

			l.Tick(ctx)
			wg.Wait()
			Expect(mem.Started()).To(Equal([]string{"second (said earlier: first)"}))
		})

		It("gives up waiting after the patience window", func() {
			l := newLoop()
			capturer.SetSpeaking(true)
			capturer.Say("still talking")

			start := time.Now()
			l.Tick(ctx)
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
			Expect(mem.Started()).To(Equal([]string{"still talking"}))
		})
	})

	Describe("idle ticks", func() {
		It("processes one deferred job per tick in FIFO order", func() {
			l := newLoop()
			capturer.Say("one")
			l.Tick(ctx)
			capturer.Say("two")
			l.Tick(ctx)
			Expect(l.Deferred().Len()).To(Equal(2))

			l.Tick(ctx)
			Expect(mem.Extracted()).To(Equal([]extraction{{User: "one", Assistant: "Nice to see you!"}}))
			Expect(l.Deferred().Len()).To(Equal(1))

			l.Tick(ctx)
			Expect(mem.Extracted()).To(HaveLen(2))
			Expect(mem.Extracted()[1].User).To(Equal("two"))
		})

		It("wraps extraction in memory_generating", func() {
			l := newLoop()
			l.Deferred().Push(agent.DeferredJob{UserText: "u", AssistantText: "a"})
			bus.Drain()

			l.Tick(ctx)
			events := bus.Drain()
			Expect(events).To(HaveLen(2))
			Expect(events[0].Field).To(Equal(status.MemoryGenerating))
			Expect(events[0].Value).To(BeTrue())
			Expect(events[1].Value).To(BeFalse())
		})

		It("tolerates extraction errors", func() {
			mem.ExtractErr = errBoom
			l := newLoop()
			l.Deferred().Push(agent.DeferredJob{UserText: "u", AssistantText: "a"})
			l.Tick(ctx)
			Expect(l.Deferred().Len()).To(Equal(0))
			Expect(bus.Bool(status.MemoryGenerating)).To(BeFalse())
		})

		It("does no background work while the user is talking", func() {
			l := newLoop()
			l.Deferred().Push(agent.DeferredJob{UserText: "u", AssistantText: "a"})
			bus.SetBool(status.UserTalking, true)

			l.Tick(ctx)
			Expect(mem.Extracted()).To(BeEmpty())

			bus.SetBool(status.UserTalking, false)
			l.Tick(ctx)
			Expect(mem.Extracted()).To(HaveLen(1))
		})

		It("speaks unprompted after the silence threshold", func() {
			generator.Default = "Is anyone there?"
			classifier.Label = "sadness"
			l := newLoop()

			l.Tick(ctx)
			Expect(generator.Calls()).To(Equal(0))

			clk.Advance(2 * time.Minute)
			l.Tick(ctx)

			reqs := generator.Requests()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Prompt).To(Equal(agent.DefaultAutonomousPrompt))
			Expect(reqs[0].MaxTokens).To(Equal(agent.DefaultAutonomousMaxTokens))

			Expect(player.Played()).To(Equal([]testutils.Played{{Text: "Is anyone there?", Label: "sadness"}}))
			Expect(bus.String(status.EmotionLabel)).To(Equal("sadness"))

			job, ok := l.Deferred().Pop()
			Expect(ok).To(BeTrue())
			Expect(job.UserText).To(BeEmpty())
			Expect(job.AssistantText).To(Equal("Is anyone there?"))

			jobs := archiver.Jobs()
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Autonomous).To(BeTrue())
			Expect(jobs[0].TurnID).To(HaveLen(32))

			// The activity clock was reset.
			l.Tick(ctx)
			Expect(generator.Calls()).To(Equal(1))
		})

		It("prefers deferred jobs over autonomous speech", func() {
			l := newLoop()
			l.Deferred().Push(agent.DeferredJob{UserText: "u", AssistantText: "a"})
			clk.Advance(2 * time.Minute)

			l.Tick(ctx)
			Expect(mem.Extracted()).To(HaveLen(1))
			Expect(generator.Calls()).To(Equal(0))
		})

		It("stays quiet when autonomous speech is disabled", func() {
			settings.Autonomous = false
			l := newLoop()
			clk.Advance(time.Hour)
			l.Tick(ctx)
			Expect(generator.Calls()).To(Equal(0))
		})

		It("never overlaps generation with extraction", func() {
			generator.OnGenerate = func(generation.Request) {
				defer GinkgoRecover()
				Expect(bus.Bool(status.MemoryGenerating)).To(BeFalse())
			}
			l := newLoop()
			for i := range 4 {
				capturer.Say(string(rune('a' + i)))
				l.Tick(ctx)
				l.Tick(ctx)
			}
			clk.Advance(2 * time.Minute)
			for range 4 {
				l.Tick(ctx)
			}
			Expect(mem.Extracted()).NotTo(BeEmpty())
			Expect(mem.overlapped).To(BeFalse())
		})
	})

	Describe("Run", func() {
		It("returns once the context is cancelled", func() {
			l := newLoop()
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- l.Run(runCtx) }()

			capturer.Say("hello")
			Eventually(player.Played).Should(HaveLen(1))
			cancel()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))
		})
	})

	Describe("Close", func() {
		It("stops every worker and is idempotent", func() {
			l := newLoop()
			Expect(l.Close()).To(Succeed())
			Expect(l.Close()).To(Succeed())

			Expect(capturer.Stopped()).To(Equal(1))
			Expect(player.Stopped()).To(Equal(1))
			Expect(animation.stopped).To(Equal(1))
			Expect(archiver.closed).To(Equal(1))
		})

		It("keeps stopping after a failure and joins the errors", func() {
			capturer.StopErr = errBoom
			animation.err = errBoom
			l := newLoop()

			err := l.Close()
			Expect(err).To(MatchError(errBoom))
			Expect(err.Error()).To(ContainSubstring("stopping capture"))
			Expect(err.Error()).To(ContainSubstring("stopping animation"))
			Expect(player.Stopped()).To(Equal(1))
			Expect(archiver.closed).To(Equal(1))
		})
	})
})

var _ = Describe("Loop with the memory orchestrator", func() {
	It("leaves a failed turn pending alongside the next one", func() {
		bus := status.New()
		capturer := testutils.NewMockCapturer()
		generator := testutils.NewMockGenerator()
		generator.Err = errBoom
		short := shortterm.NewStore(shortterm.Config{})
		orch := memory.New(memory.Config{Short: short})

		settings := agent.DefaultSettings()
		settings.InputTimeout = 10 * time.Millisecond
		l, err := agent.New(agent.Config{
			Capture:   capturer,
			Generator: generator,
			Memory:    orch,
			Bus:       bus,
			Settings:  settings,
		})
		Expect(err).NotTo(HaveOccurred())

		capturer.Say("what is your name")
		l.Tick(context.Background())

		generator.Err = nil
		generator.Default = "I'm Mika."
		capturer.Say("what is your name")
		l.Tick(context.Background())

		turns := short.Turns()
		Expect(turns).To(HaveLen(2))
		Expect(turns[0].Pending()).To(BeTrue())
		Expect(turns[1].Pending()).To(BeFalse())
		Expect(turns[1].AssistantText).To(Equal("I'm Mika."))

		// The stale pending turn matched as recent context for the retry.
		prompt := generator.Requests()[1].Prompt
		Expect(prompt).To(ContainSubstring("[RECENT]:\nUser: what is your name\nAssistant: "))
	})
})
