// Package animationutils builds the configured animation.Driver.
package animationutils

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/animation"
	"github.com/Gorgooo61/AI-character/pkg/animation/logdriver"
	"github.com/Gorgooo61/AI-character/pkg/animation/vtubestudio"
)

type NewDriverOpts struct {
	ProviderType    string
	TargetURL       string
	PluginName      string
	PluginDeveloper string
	TokenPath       string
	Timeout         time.Duration
	Logger          *slog.Logger
}

func NewDriver(o *NewDriverOpts) (animation.Driver, error) {
	switch o.ProviderType {
	case animation.DriverLog:
		return logdriver.New(o.Logger), nil
	case animation.DriverVTubeStudio:
		return vtubestudio.New(vtubestudio.Config{
			URL:             o.TargetURL,
			PluginName:      o.PluginName,
			PluginDeveloper: o.PluginDeveloper,
			TokenPath:       o.TokenPath,
			Timeout:         o.Timeout,
		}, o.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", animation.ErrUnknownDriver, o.ProviderType)
	}
}
