package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	"github.com/autoscope-io/autoscope/internal/hub/core/service"
	"github.com/autoscope-io/autoscope/internal/pkg/metrics"
	"github.com/autoscope-io/autoscope/pkg/log"
	pkgmqtt "github.com/autoscope-io/autoscope/pkg/mqtt"
	"github.com/autoscope-io/autoscope/pkg/mqtt/topic"
)

// Server is the MQTT ingest plane: the mutation surface feeding live data
// and fault events into the entity store. Malformed payloads are logged and
// dropped; the ingest loop never crashes on bad input.
type Server struct {
	client pkgmqtt.Client
	topics *topic.Builder
	svc    *service.Service
}

// NewServer creates the ingest server over an unstarted MQTT client.
func NewServer(client pkgmqtt.Client, builder *topic.Builder, svc *service.Service) *Server {
	return &Server{
		client: client,
		topics: builder,
		svc:    svc,
	}
}

// Start connects to the broker, subscribes to the ingest topics and blocks
// until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return err
	}

	// Ensure MQTT disconnects when Start exits.
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(shutdownCtx)
	}()

	log.Info("Waiting for MQTT connection...")
	if err := s.client.AwaitConnection(ctx); err != nil {
		return err
	}
	log.Info("MQTT Connected")

	if err := s.initSubscriptions(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (s *Server) initSubscriptions(ctx context.Context) error {
	const qos = 1

	subscriptions := map[string]pkgmqtt.MessageHandler{
		s.topics.DataWildcard():  s.handleData,
		s.topics.FaultWildcard(): s.handleFault,
	}

	for filter, handler := range subscriptions {
		if err := s.client.Subscribe(ctx, filter, qos, handler); err != nil {
			return fmt.Errorf("failed to subscribe to topic %s: %w", filter, err)
		}
	}

	return nil
}

// dataUpdate is the wire shape of one current-data update.
type dataUpdate struct {
	Key   string      `json:"key"`
	Value model.Value `json:"value"`
}

func (s *Server) handleData(ctx context.Context, t string, payload []byte) {
	entityID := topic.EntityID(t)
	if entityID == "" {
		metrics.IngestTotal.WithLabelValues("data", "malformed").Inc()
		log.Warn("Data update on malformed topic", "topic", t)
		return
	}

	var update dataUpdate
	if err := json.Unmarshal(payload, &update); err != nil || update.Key == "" {
		metrics.IngestTotal.WithLabelValues("data", "malformed").Inc()
		log.Warn("Dropping malformed data update", "topic", t, "err", err)
		return
	}

	if err := s.svc.SetCurrentData(entityID, update.Key, update.Value); err != nil {
		metrics.IngestTotal.WithLabelValues("data", "rejected").Inc()
		log.Warn("Rejected data update", "entity", entityID, "key", update.Key, "err", err)
		return
	}

	metrics.IngestTotal.WithLabelValues("data", "ok").Inc()
	log.Debug("Applied data update", "entity", entityID, "key", update.Key)
}

func (s *Server) handleFault(ctx context.Context, t string, payload []byte) {
	entityID := topic.EntityID(t)
	if entityID == "" {
		metrics.IngestTotal.WithLabelValues("fault", "malformed").Inc()
		log.Warn("Fault event on malformed topic", "topic", t)
		return
	}

	var fault model.Fault
	if err := json.Unmarshal(payload, &fault); err != nil || fault.Code == "" {
		metrics.IngestTotal.WithLabelValues("fault", "malformed").Inc()
		log.Warn("Dropping malformed fault event", "topic", t, "err", err)
		return
	}
	if !fault.Status.AggregatedStatus.Valid() {
		metrics.IngestTotal.WithLabelValues("fault", "malformed").Inc()
		log.Warn("Dropping fault event with invalid status",
			"entity", entityID, "code", fault.Code, "status", string(fault.Status.AggregatedStatus))
		return
	}
	if fault.DetectedAt.IsZero() {
		fault.DetectedAt = time.Now()
	}

	if err := s.svc.AppendFault(entityID, fault); err != nil {
		metrics.IngestTotal.WithLabelValues("fault", "rejected").Inc()
		log.Warn("Rejected fault event", "entity", entityID, "code", fault.Code, "err", err)
		return
	}

	metrics.IngestTotal.WithLabelValues("fault", "ok").Inc()
	log.Debug("Appended fault", "entity", entityID, "code", fault.Code)
}
