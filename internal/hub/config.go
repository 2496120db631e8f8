package hub

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/autoscope-io/autoscope/internal/hub/core/service"
	"github.com/autoscope-io/autoscope/internal/hub/seed"
	"github.com/autoscope-io/autoscope/internal/hub/server"
	httpserver "github.com/autoscope-io/autoscope/internal/hub/server/http"
	mqttserver "github.com/autoscope-io/autoscope/internal/hub/server/mqtt"
	"github.com/autoscope-io/autoscope/internal/hub/storage"
	"github.com/autoscope-io/autoscope/internal/pkg/metrics"
	"github.com/autoscope-io/autoscope/pkg/log"
	"github.com/autoscope-io/autoscope/pkg/mqtt"
	"github.com/autoscope-io/autoscope/pkg/mqtt/topic"
	"github.com/autoscope-io/autoscope/pkg/options"
)

// Config aggregates the validated option groups for the hub.
type Config struct {
	HttpOptions *options.HttpOptions
	MqttOptions *options.MqttOptions
	S3Options   *options.S3Options
	BulkOptions *options.BulkOptions
	SeedOptions *options.SeedOptions
}

// NewHub loads the seed document, wires the resolver engine and constructs
// the protocol servers. Seed validation failures are fatal here, before any
// listener is opened.
func (cfg *Config) NewHub() (*Hub, error) {
	st, registry, err := seed.Load(cfg.SeedOptions.Path)
	if err != nil {
		return nil, err
	}

	metrics.Entities.WithLabelValues("areas").Set(float64(len(st.Areas())))
	metrics.Entities.WithLabelValues("components").Set(float64(len(st.Components())))
	metrics.Entities.WithLabelValues("apps").Set(float64(len(st.Apps())))
	metrics.Entities.WithLabelValues("functions").Set(float64(len(st.Functions())))

	// The bulk base is served through a chroot-bounded filesystem; nothing
	// above it is ever reachable, symlinks included.
	bulkFS := osfs.New(cfg.BulkOptions.BaseDir)

	var archive storage.Provider
	if cfg.S3Options.Endpoint != "" {
		archive, err = storage.NewMinIOProvider(cfg.S3Options)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("Artifact archive not configured, snapshot uploads disabled")
	}

	svc := service.New(st, registry, bulkFS, archive)

	servers := []server.Server{
		httpserver.NewServer(cfg.HttpOptions, svc),
	}

	if cfg.MqttOptions.Broker != "" {
		mqttClient, err := cfg.newMqttClient()
		if err != nil {
			return nil, err
		}
		builder := topic.NewBuilder(cfg.MqttOptions.TopicRoot)
		servers = append(servers, mqttserver.NewServer(mqttClient, builder, svc))
	} else {
		log.Info("MQTT broker not configured, running HTTP-only")
	}

	return &Hub{
		manager: server.NewManager(servers...),
		archive: archive,
	}, nil
}

func (cfg *Config) newMqttClient() (mqtt.Client, error) {
	clientCfg := cfg.MqttOptions.ToClientConfig()
	if clientCfg.ClientID == "" {
		hostname, _ := os.Hostname()
		clientCfg.ClientID = fmt.Sprintf("ascope-hub-%s", hostname)
	}

	mqttClient, err := mqtt.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mqtt client: %w", err)
	}
	return mqttClient, nil
}
