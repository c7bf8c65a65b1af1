package status

import "time"

// Field names a single piece of shared runtime state.
type Field string

const (
	UserTalking         Field = "user_talking"
	AITalking           Field = "ai_talking"
	AIGenerating        Field = "ai_generating"
	MemoryGenerating    Field = "memory_generating"
	NewInputPending     Field = "new_input_pending"
	EmotionLabel        Field = "emotion_label"
	CaptureEnabled      Field = "capture_enabled"
	AvatarEnabled       Field = "avatar_enabled"
	LastTriggeredHotkey Field = "last_triggered_hotkey"
)

// fieldOrder is the declaration order used by Fields and Snapshot.
var fieldOrder = []Field{
	UserTalking,
	AITalking,
	AIGenerating,
	MemoryGenerating,
	NewInputPending,
	EmotionLabel,
	CaptureEnabled,
	AvatarEnabled,
	LastTriggeredHotkey,
}

// defaults holds the initial value of every known field. The dynamic type of
// each default is the only type Set accepts for that field.
var defaults = map[Field]any{
	UserTalking:         false,
	AITalking:           false,
	AIGenerating:        false,
	MemoryGenerating:    false,
	NewInputPending:     false,
	EmotionLabel:        "",
	CaptureEnabled:      true,
	AvatarEnabled:       true,
	LastTriggeredHotkey: "",
}

// Fields returns every known field in declaration order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	_, ok := defaults[f]
	return ok
}

// Value is the last known value of a field and when it last changed.
// ChangedAt is the zero time for fields still holding their default.
type Value struct {
	Value     any       `json:"value"`
	ChangedAt time.Time `json:"changed_at"`
}

// Event records a single value transition.
type Event struct {
	Field Field     `json:"field"`
	Value any       `json:"value"`
	Time  time.Time `json:"time"`
}
