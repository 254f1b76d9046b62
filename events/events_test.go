package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/karchag/karchag-backend/consts"
)

type fakeIndexer struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeIndexer) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeIndexer) TextUpdate(id int64) error {
	f.record("update")
	return nil
}

func (f *fakeIndexer) TextDelete(id int64) error {
	f.record("delete")
	return errors.New("index is gone")
}

func (f *fakeIndexer) ReindexReferencing(table string, id int64) error {
	f.record("reindex:" + table)
	return nil
}

// runs tasks on the calling goroutine
type syncQueue struct{}

func (syncQueue) Init()              {}
func (syncQueue) Close()             {}
func (syncQueue) Enqueue(t WorkTask) { t.Do() }

type EventsSuite struct {
	suite.Suite
}

func TestEvents(t *testing.T) {
	suite.Run(t, new(EventsSuite))
}

func (suite *EventsSuite) TestDispatch() {
	idx := new(fakeIndexer)
	d := NewDispatcher(idx, syncQueue{})

	d.Dispatch(NewEvent(consts.E_TEXT_CREATE, consts.TBL_TEXTS, 1))
	d.Dispatch(NewEvent(consts.E_TEXT_UPDATE, consts.TBL_TEXTS, 1))
	d.Dispatch(NewEvent(consts.E_TEXT_DELETE, consts.TBL_TEXTS, 1))
	d.Dispatch(NewEvent(consts.E_LOOKUP_UPDATE, consts.TBL_YANAS, 2))
	d.Dispatch(NewEvent(consts.E_CATEGORY_UPDATE, consts.TBL_MAIN_CATEGORIES, 3))
	d.Dispatch(NewEvent(consts.E_NEWS_CHANGE, consts.TBL_NEWS, 4))
	d.Dispatch(NewEvent("bogus", "", 5))

	suite.Equal([]string{"update", "update", "delete", "reindex:yanas", "reindex:main_categories"}, idx.calls)
}

func (suite *EventsSuite) TestHandleMessage() {
	idx := new(fakeIndexer)
	d := NewDispatcher(idx, syncQueue{})

	data, err := json.Marshal(NewEvent(consts.E_TEXT_DELETE, consts.TBL_TEXTS, 9))
	suite.Require().Nil(err)
	suite.Nil(d.HandleMessage(data))
	suite.Equal([]string{"delete"}, idx.calls)

	suite.NotNil(d.HandleMessage([]byte("{not json")))
}

func (suite *EventsSuite) TestEventJSON() {
	e := NewEvent(consts.E_TEXT_UPDATE, consts.TBL_TEXTS, 12)
	suite.Len(e.ID, 36)

	data, err := json.Marshal(e)
	suite.Require().Nil(err)
	suite.JSONEq(`{"id":"`+e.ID+`","type":"text.update","payload":{"id":12,"table":"kagyur_texts"}}`, string(data))
}

func (suite *EventsSuite) TestIndexerQueue() {
	idx := new(fakeIndexer)
	q := new(IndexerQueue)
	q.Init()

	d := NewDispatcher(idx, q)
	for i := 0; i < 10; i++ {
		d.Dispatch(NewEvent(consts.E_TEXT_UPDATE, consts.TBL_TEXTS, int64(i)))
	}
	// panicking task doesn't kill the worker
	q.Enqueue(IndexerTask{Name: "panic", F: func(int64) error { panic("boom") }})
	d.Dispatch(NewEvent(consts.E_TEXT_DELETE, consts.TBL_TEXTS, 11))

	q.Close()

	suite.Len(idx.calls, 11)
	suite.Equal("delete", idx.calls[10])

	// after Close tasks are dropped, not sent on a closed channel
	d.Dispatch(NewEvent(consts.E_TEXT_UPDATE, consts.TBL_TEXTS, 12))
	suite.Len(idx.calls, 11)
}

func (suite *EventsSuite) TestIndexerTaskString() {
	t := IndexerTask{Name: "ReindexReferencing:yanas", ID: 4}
	suite.Equal("ReindexReferencing:yanas [4]", t.String())
}

func (suite *EventsSuite) TestNoopPublisher() {
	p := new(NoopPublisher)
	for i := 0; i < 105; i++ {
		suite.Nil(p.Publish(NewEvent(consts.E_TEXT_UPDATE, consts.TBL_TEXTS, int64(i))))
	}
	events := p.Events()
	suite.Len(events, 100)
	suite.EqualValues(5, events[0].Payload.ID)
	suite.Nil(p.Close())
}

func (suite *EventsSuite) TestWaitTimeout() {
	var wg sync.WaitGroup
	suite.True(WaitTimeout(&wg, time.Millisecond))

	wg.Add(1)
	suite.False(WaitTimeout(&wg, 10*time.Millisecond))
	wg.Done()
}
