// Package eventstreamutils builds the configured eventstream.Publisher.
package eventstreamutils

import (
	"fmt"
	"log/slog"

	"github.com/Gorgooo61/AI-character/pkg/eventstream"
	"github.com/Gorgooo61/AI-character/pkg/eventstream/kafka"
	"github.com/Gorgooo61/AI-character/pkg/eventstream/nop"
)

const (
	ProviderNone  = "none"
	ProviderKafka = "kafka"
)

type NewPublisherOpts struct {
	ProviderType string
	Brokers      []string
	Topic        string
	ClientID     string
	Logger       *slog.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case ProviderNone, "":
		return nop.NewPublisher(o.Logger), nil
	case ProviderKafka:
		return kafka.NewPublisher(kafka.Config{
			Brokers:  o.Brokers,
			Topic:    o.Topic,
			ClientID: o.ClientID,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("%w: %s", eventstream.ErrUnknownProvider, o.ProviderType)
	}
}
