package es

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/olivere/elastic.v6"
)

type Index interface {
	ReindexAll() error
	CreateIndex() error
	DeleteIndex() error
	RefreshIndex() error
}

// BaseIndex handles the life cycle of a single named index.
type BaseIndex struct {
	esc     *elastic.Client
	name    string
	mapping map[string]interface{}
}

func (index *BaseIndex) Name() string {
	return index.name
}

// CreateIndex drops the index when it exists and creates it anew.
func (index *BaseIndex) CreateIndex() error {
	if index.name == "" {
		panic("Index name should be set.")
	}

	// Delete index if it's already exists.
	if err := index.DeleteIndex(); err != nil {
		return err
	}

	res, err := index.esc.CreateIndex(index.name).BodyJson(index.mapping).Do(context.TODO())
	if err != nil {
		return errors.Wrap(err, "Create index")
	}
	if !res.Acknowledged {
		return errors.Errorf("Index creation wasn't acknowledged: %s", index.name)
	}
	return nil
}

func (index *BaseIndex) DeleteIndex() error {
	exists, err := index.esc.IndexExists(index.name).Do(context.TODO())
	if err != nil {
		return errors.Wrap(err, "Index exists")
	}
	if exists {
		res, err := index.esc.DeleteIndex(index.name).Do(context.TODO())
		if err != nil {
			return errors.Wrap(err, "Delete index")
		}
		if !res.Acknowledged {
			return errors.Errorf("Index deletion wasn't acknowledged: %s", index.name)
		}
	}
	return nil
}

func (index *BaseIndex) RefreshIndex() error {
	_, err := index.esc.Refresh(index.name).Do(context.TODO())
	return errors.Wrap(err, "Refresh index")
}
