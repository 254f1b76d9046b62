package events

import (
	"encoding/json"
	"os"
	"os/signal"

	log "github.com/Sirupsen/logrus"
	"github.com/nats-io/go-nats-streaming"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/karchag/karchag-backend/consts"
)

// Indexer is what events are dispatched to
type Indexer interface {
	TextUpdate(id int64) error
	TextDelete(id int64) error
	// ReindexReferencing reindexes all texts referencing the row id of table
	ReindexReferencing(table string, id int64) error
}

// Dispatcher maps incoming events to indexer tasks on a work queue.
type Dispatcher struct {
	indexer Indexer
	queue   WorkQueue
}

func NewDispatcher(indexer Indexer, queue WorkQueue) *Dispatcher {
	return &Dispatcher{indexer: indexer, queue: queue}
}

func (d *Dispatcher) HandleMessage(data []byte) error {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return errors.Wrap(err, "json.Unmarshal")
	}
	d.Dispatch(e)
	return nil
}

func (d *Dispatcher) Dispatch(e Event) {
	log.Infof("event %s [%s] %s:%d", e.Type, e.ID, e.Payload.Table, e.Payload.ID)

	switch e.Type {
	case consts.E_TEXT_CREATE, consts.E_TEXT_UPDATE:
		d.queue.Enqueue(IndexerTask{Name: "TextUpdate", F: d.indexer.TextUpdate, ID: e.Payload.ID})
	case consts.E_TEXT_DELETE:
		d.queue.Enqueue(IndexerTask{Name: "TextDelete", F: d.indexer.TextDelete, ID: e.Payload.ID})
	case consts.E_CATEGORY_UPDATE, consts.E_SUB_CATEGORY_UPDATE, consts.E_LOOKUP_UPDATE:
		table := e.Payload.Table
		d.queue.Enqueue(IndexerTask{
			Name: "ReindexReferencing:" + table,
			F: func(id int64) error {
				return d.indexer.ReindexReferencing(table, id)
			},
			ID: e.Payload.ID,
		})
	case consts.E_AUDIO_CHANGE, consts.E_NEWS_CHANGE, consts.E_VIDEO_CHANGE, consts.E_EDITION_CHANGE, consts.E_USER_CHANGE:
		// not indexed
	default:
		log.Errorf("unknown event type: %s id: %d", e.Type, e.Payload.ID)
	}
}

// RunListener subscribes to the events subject and blocks until interrupted.
func RunListener(indexer Indexer) error {
	natsUrl := viper.GetString("nats.url")
	natsClientId := viper.GetString("nats.client-id")
	natsClusterId := viper.GetString("nats.cluster-id")
	natsSubject := viper.GetString("nats.subject")

	sc, err := stan.Connect(natsClusterId, natsClientId, stan.NatsURL(natsUrl))
	if err != nil {
		return errors.Wrapf(err, "Can't connect. Make sure a NATS Streaming Server is running at: %s", natsUrl)
	}
	log.Infof("Connected to %s clusterID: [%s] clientID: [%s]", natsUrl, natsClusterId, natsClientId)

	queue := new(IndexerQueue)
	queue.Init()
	d := NewDispatcher(indexer, queue)

	sub, err := sc.Subscribe(natsSubject, func(msg *stan.Msg) {
		if err := d.HandleMessage(msg.Data); err != nil {
			log.Errorf("bad message on %s: %s", natsSubject, err.Error())
		}
	}, stan.DeliverAllAvailable())
	if err != nil {
		queue.Close()
		sc.Close()
		return errors.Wrapf(err, "Subscribe %s", natsSubject)
	}
	log.Infof("Listening on [%s], clientID=[%s]", natsSubject, natsClientId)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	<-signalChan

	log.Info("Received an interrupt, unsubscribing and closing connection...")
	if err := sub.Close(); err != nil {
		log.Warnf("subscription close: %s", err.Error())
	}
	queue.Close()
	return sc.Close()
}
