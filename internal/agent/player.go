package agent

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/pkg/log"
	pkgmqtt "github.com/autoscope-io/autoscope/pkg/mqtt"
	"github.com/autoscope-io/autoscope/pkg/mqtt/topic"
)

const publishQoS = 1

// player replays one loaded profile against the broker until its context is
// cancelled. A fresh player is built for every (re)load of the profile.
type player struct {
	client  pkgmqtt.Client
	topics  *topic.Builder
	profile *Profile
}

type dataUpdate struct {
	Key   string      `json:"key"`
	Value model.Value `json:"value"`
}

// Run publishes every entity's initial values, then drives the periodic
// updates and scripted fault events concurrently. It returns when the
// context is cancelled; publish failures are logged and skipped so a broker
// hiccup does not abort playback.
func (p *player) Run(ctx context.Context) error {
	for _, entity := range p.profile.Entities {
		for key, value := range entity.Initial {
			p.publishData(ctx, entity.ID, key, value)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, entity := range p.profile.Entities {
		entity := entity
		for _, update := range entity.Updates {
			update := update
			group.Go(func() error {
				p.runUpdate(ctx, entity.ID, update)
				return nil
			})
		}
		for _, event := range entity.Faults {
			event := event
			group.Go(func() error {
				p.runFaultEvent(ctx, entity.ID, event)
				return nil
			})
		}
	}
	return group.Wait()
}

func (p *player) runUpdate(ctx context.Context, entityID string, update UpdateProfile) {
	ticker := time.NewTicker(update.Interval.Std())
	defer ticker.Stop()

	next := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.publishData(ctx, entityID, update.Key, update.Values[next])
			next = (next + 1) % len(update.Values)
		}
	}
}

func (p *player) runFaultEvent(ctx context.Context, entityID string, event FaultEvent) {
	timer := time.NewTimer(event.After.Std())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	fault := model.Fault{
		Code:     event.Code,
		Name:     event.Name,
		Severity: event.Severity,
		Status: model.FaultStatus{
			AggregatedStatus: model.AggregatedStatus(event.Status),
		},
		DetectedAt:      time.Now(),
		OccurrenceCount: 1,
	}
	payload, err := json.Marshal(fault)
	if err != nil {
		log.Error(err, "Failed to marshal fault event", "entity", entityID, "code", event.Code)
		return
	}

	if err := p.client.Publish(ctx, p.topics.Fault(entityID), publishQoS, false, payload); err != nil {
		log.Error(err, "Failed to publish fault event", "entity", entityID, "code", event.Code)
		return
	}
	log.Info("Published fault event", "entity", entityID, "code", event.Code)
}

func (p *player) publishData(ctx context.Context, entityID, key string, value model.Value) {
	payload, err := json.Marshal(dataUpdate{Key: key, Value: value})
	if err != nil {
		log.Error(err, "Failed to marshal data update", "entity", entityID, "key", key)
		return
	}

	if err := p.client.Publish(ctx, p.topics.Data(entityID), publishQoS, false, payload); err != nil {
		log.Error(err, "Failed to publish data update", "entity", entityID, "key", key)
		return
	}
	log.Debug("Published data update", "entity", entityID, "key", key)
}
