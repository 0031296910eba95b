// Package events publishes query-audit events to NATS streaming so the
// analytics pipeline can track which dashboard widgets run which
// queries. Publishing is fire-and-forget: a request is never blocked
// or failed because the event bus is down.
package events

import (
	"encoding/json"
	"time"

	log "github.com/Sirupsen/logrus"
	"github.com/nats-io/go-nats-streaming"
	"github.com/spf13/viper"

	"github.com/pulseboard/listening-backend/utils"
)

const queueSize = 1024

type QueryEvent struct {
	Endpoint   string    `json:"endpoint"`
	TopicID    int64     `json:"topic_id"`
	Category   string    `json:"category"`
	Source     string    `json:"source"`
	TookMillis int64     `json:"took_millis"`
	ExecutedAt time.Time `json:"executed_at"`
}

var (
	sc      stan.Conn
	subject string
	queue   chan QueryEvent
	done    chan struct{}
)

// Init connects to NATS streaming and starts the drain goroutine. A
// missing nats.url disables publishing entirely.
func Init() error {
	url := viper.GetString("nats.url")
	if url == "" {
		log.Info("No nats.url configured, query events disabled")
		return nil
	}

	clusterID := viper.GetString("nats.cluster-id")
	clientID := viper.GetString("nats.client-id")
	subject = viper.GetString("nats.subject")
	if subject == "" {
		subject = "listening.queries"
	}

	var err error
	sc, err = stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return err
	}

	queue = make(chan QueryEvent, queueSize)
	done = make(chan struct{})
	go drain()

	log.Infof("Publishing query events to %s", subject)
	return nil
}

// Publish enqueues one event. Drops on a full queue rather than
// blocking the request path.
func Publish(e QueryEvent) {
	if queue == nil {
		return
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now().UTC()
	}
	select {
	case queue <- e:
	default:
		log.Warn("Query event queue full, dropping event")
	}
}

func drain() {
	for e := range queue {
		data, err := json.Marshal(e)
		if err != nil {
			log.Errorf("Marshal query event: %s", err)
			continue
		}
		if err := sc.Publish(subject, data); err != nil {
			log.Errorf("Publish query event: %s", err)
		}
	}
	close(done)
}

func Close() {
	if queue == nil {
		return
	}
	close(queue)
	<-done
	utils.Must(sc.Close())
	queue = nil
}
