package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/autoscope-io/autoscope/pkg/log"
	pkgmqtt "github.com/autoscope-io/autoscope/pkg/mqtt"
	"github.com/autoscope-io/autoscope/pkg/mqtt/topic"
	"github.com/autoscope-io/autoscope/pkg/options"
)

// Config aggregates the validated option groups for the agent.
type Config struct {
	MqttOptions *options.MqttOptions
	ProfilePath string
}

// Agent plays a scenario profile against the broker and hot-reloads it when
// the file changes on disk.
type Agent struct {
	client      pkgmqtt.Client
	topics      *topic.Builder
	profilePath string
}

// NewAgent validates the profile up front and constructs the MQTT client.
func (cfg *Config) NewAgent() (*Agent, error) {
	// Fail fast on a broken profile before touching the broker.
	if _, err := LoadProfile(cfg.ProfilePath); err != nil {
		return nil, err
	}

	clientCfg := cfg.MqttOptions.ToClientConfig()
	if clientCfg.ClientID == "" {
		hostname, _ := os.Hostname()
		clientCfg.ClientID = fmt.Sprintf("ascope-agent-%s", hostname)
	}

	client, err := pkgmqtt.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mqtt client: %w", err)
	}

	return &Agent{
		client:      client,
		topics:      topic.NewBuilder(cfg.MqttOptions.TopicRoot),
		profilePath: cfg.ProfilePath,
	}, nil
}

// Run connects to the broker and plays the profile until the context is
// cancelled. On each change to the profile file the running playback is
// stopped and restarted with the new document; a reload that fails to parse
// keeps the previous playback running.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.client.Start(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.client.Disconnect(shutdownCtx)
	}()

	log.Info("Waiting for MQTT connection...")
	if err := a.client.AwaitConnection(ctx); err != nil {
		return err
	}
	log.Info("MQTT Connected")

	reload := make(chan struct{}, 1)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return watchProfile(ctx, a.profilePath, reload)
	})
	group.Go(func() error {
		return a.playLoop(ctx, reload)
	})

	err := group.Wait()
	log.Info("ascope-agent stopped")
	return err
}

func (a *Agent) playLoop(ctx context.Context, reload <-chan struct{}) error {
	profile, err := LoadProfile(a.profilePath)
	if err != nil {
		return err
	}

	for {
		playCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		p := &player{client: a.client, topics: a.topics, profile: profile}
		go func() {
			defer close(done)
			if err := p.Run(playCtx); err != nil {
				log.Error(err, "Profile playback failed")
			}
		}()
		log.Info("Playing profile", "path", a.profilePath, "entities", len(profile.Entities))

	waiting:
		for {
			select {
			case <-ctx.Done():
				cancel()
				<-done
				return nil
			case <-reload:
				next, err := LoadProfile(a.profilePath)
				if err != nil {
					// Keep the current playback running on a broken edit.
					log.Error(err, "Ignoring profile reload", "path", a.profilePath)
					continue
				}
				log.Info("Profile changed, restarting playback", "path", a.profilePath)
				cancel()
				<-done
				profile = next
				break waiting
			}
		}
	}
}
