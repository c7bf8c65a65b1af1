package eventstream_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Gorgooo61/AI-character/pkg/eventstream"
	"github.com/Gorgooo61/AI-character/pkg/storage"
)

var _ = Describe("Event", func() {
	now := time.Unix(1735689600, 0).UTC()
	turn := storage.Turn{
		ID:            "turn-1",
		UserText:      "hello",
		AssistantText: "hi there",
		Emotion:       "joy",
		StartedAt:     now.Add(-1500 * time.Millisecond),
		CompletedAt:   now,
	}

	It("builds a v1 turn completed event", func() {
		event := eventstream.NewTurnCompletedEvent(turn, eventstream.EventSource{
			Character: "Mika",
			Generator: "ollama",
		}, now)

		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal("character.turn.completed"))
		Expect(event.EventID).To(HaveLen(36))
		Expect(event.Timing.DurationMs).To(Equal(int64(1500)))
		Expect(event.Turn.ID).To(Equal("turn-1"))
	})

	It("assigns a distinct id to every event", func() {
		a := eventstream.NewTurnCompletedEvent(turn, eventstream.EventSource{}, now)
		b := eventstream.NewTurnCompletedEvent(turn, eventstream.EventSource{}, now)
		Expect(a.EventID).NotTo(Equal(b.EventID))
	})

	It("marshals with expected top-level keys", func() {
		payload, err := json.Marshal(eventstream.NewTurnCompletedEvent(turn, eventstream.EventSource{Generator: "ollama"}, now))
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("source"))
		Expect(got).To(HaveKey("timing"))
		Expect(got).To(HaveKey("turn"))
		Expect(got["turn"]).To(HaveKeyWithValue("assistant_text", "hi there"))
	})

	It("provides ErrNilTurnEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilTurnEvent).To(MatchError("nil turn event"))
	})
})
