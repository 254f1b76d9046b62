package es

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/olivere/elastic.v6"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

const bulkSize = 100

var textsMapping = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	},
	"mappings": map[string]interface{}{
		DOC_TYPE: map[string]interface{}{
			"properties": map[string]interface{}{
				"id":               map[string]interface{}{"type": "long"},
				"main_category_id": map[string]interface{}{"type": "long"},
				"sub_category_id":  map[string]interface{}{"type": "long"},
				"derge_id":         map[string]interface{}{"type": "keyword"},
				"yeshe_de_id":      map[string]interface{}{"type": "keyword"},
				"tibetan_title":    map[string]interface{}{"type": "text", "analyzer": "standard"},
				"chinese_title":    map[string]interface{}{"type": "text", "analyzer": "standard"},
				"sanskrit_title":   map[string]interface{}{"type": "text", "analyzer": "standard"},
				"english_title":    map[string]interface{}{"type": "text", "analyzer": "english"},
				"sermon":           map[string]interface{}{"type": "keyword"},
				"yana":             map[string]interface{}{"type": "keyword"},
				"translation_type": map[string]interface{}{"type": "keyword"},
				"summary_english":  map[string]interface{}{"type": "text", "analyzer": "english"},
				"summary_tibetan":  map[string]interface{}{"type": "text", "analyzer": "standard"},
				"updated_at":       map[string]interface{}{"type": "date"},
			},
		},
	},
}

var searchFields = []string{
	"derge_id^4", "yeshe_de_id^4",
	"english_title^3", "tibetan_title^3",
	"sanskrit_title^2", "chinese_title^2",
	"summary_english", "summary_tibetan",
}

// TextsIndex keeps active catalog texts searchable.
type TextsIndex struct {
	BaseIndex
	db *sql.DB
}

func NewTextsIndex(esc *elastic.Client, db *sql.DB, name string) *TextsIndex {
	return &TextsIndex{
		BaseIndex: BaseIndex{esc: esc, name: name, mapping: textsMapping},
		db:        db,
	}
}

// ReindexAll pushes every active text to the index in bulks.
func (index *TextsIndex) ReindexAll() error {
	ctx := context.TODO()

	total, err := models.KagyurTexts(qm.Where("is_active = ?", true)).Count(ctx, index.db)
	if err != nil {
		return err
	}
	log.Infof("Texts Index - Adding %d texts.", total)

	var lastID int64
	indexed := 0
	for {
		texts, err := models.KagyurTexts(
			qm.Where("is_active = ? AND id > ?", true, lastID),
			qm.OrderBy("id"),
			qm.Limit(bulkSize)).All(ctx, index.db)
		if err != nil {
			return err
		}
		if len(texts) == 0 {
			break
		}

		bulk := index.esc.Bulk().Index(index.name).Type(DOC_TYPE)
		for _, t := range texts {
			doc, err := index.loadDocument(ctx, t)
			if err != nil {
				return errors.Wrapf(err, "load text %d", t.ID)
			}
			bulk.Add(elastic.NewBulkIndexRequest().Id(strconv.FormatInt(t.ID, 10)).Doc(doc))
			lastID = t.ID
		}

		res, err := bulk.Do(ctx)
		if err != nil {
			return errors.Wrap(err, "Bulk index")
		}
		if res.Errors {
			for _, item := range res.Failed() {
				log.Errorf("Texts Index - failed %s: %+v", item.Id, item.Error)
			}
			return errors.Errorf("Bulk index had %d failures", len(res.Failed()))
		}

		indexed += len(texts)
		log.Infof("Progress texts %d / %d", indexed, total)
	}

	return index.RefreshIndex()
}

// TextUpdate puts the current state of the text in the index.
// Missing or inactive texts are removed.
func (index *TextsIndex) TextUpdate(id int64) error {
	ctx := context.TODO()

	text, err := models.FindKagyurText(ctx, index.db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return index.TextDelete(id)
		}
		return err
	}
	if !text.IsActive {
		return index.TextDelete(id)
	}

	doc, err := index.loadDocument(ctx, text)
	if err != nil {
		return err
	}

	_, err = index.esc.Index().
		Index(index.name).
		Type(DOC_TYPE).
		Id(strconv.FormatInt(id, 10)).
		BodyJson(doc).
		Do(ctx)
	return errors.Wrapf(err, "Index text %d", id)
}

func (index *TextsIndex) TextDelete(id int64) error {
	_, err := index.esc.Delete().
		Index(index.name).
		Type(DOC_TYPE).
		Id(strconv.FormatInt(id, 10)).
		Do(context.TODO())
	if err != nil && !elastic.IsNotFound(err) {
		return errors.Wrapf(err, "Delete text %d", id)
	}
	return nil
}

// ReindexReferencing updates all texts pointing at row id of table.
func (index *TextsIndex) ReindexReferencing(table string, id int64) error {
	var mod qm.QueryMod
	switch table {
	case consts.TBL_MAIN_CATEGORIES:
		mod = qm.Where("sub_category_id IN (SELECT id FROM sub_categories WHERE main_category_id = ?)", id)
	case consts.TBL_SUB_CATEGORIES:
		mod = qm.Where("sub_category_id = ?", id)
	case consts.TBL_SERMONS:
		mod = qm.Where(models.SermonsTable.TextColumn+" = ?", id)
	case consts.TBL_YANAS:
		mod = qm.Where(models.YanasTable.TextColumn+" = ?", id)
	case consts.TBL_TRANSLATION_TYPES:
		mod = qm.Where(models.TranslationTypesTable.TextColumn+" = ?", id)
	default:
		return errors.Errorf("Unknown referenced table: %s", table)
	}

	texts, err := models.KagyurTexts(mod, qm.Select("id"), qm.OrderBy("id")).All(context.TODO(), index.db)
	if err != nil {
		return err
	}

	// one broken text doesn't stop the rest
	log.Infof("Texts Index - reindex %d texts referencing %s:%d", len(texts), table, id)
	for _, t := range texts {
		err = utils.JoinErrors(err, index.TextUpdate(t.ID))
	}
	return err
}

func (index *TextsIndex) loadDocument(ctx context.Context, t *models.KagyurText) (*TextDocument, error) {
	src := TextSource{Text: t}
	var err error

	src.SubCategory, err = models.FindSubCategory(ctx, index.db, t.SubCategoryID)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	src.Summary, err = models.TextSummaries(qm.Where("text_id = ?", t.ID)).One(ctx, index.db)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	lookups := []struct {
		table models.LookupTable
		id    int64
		valid bool
		dst   **models.Lookup
	}{
		{models.SermonsTable, t.SermonID.Int64, t.SermonID.Valid, &src.Sermon},
		{models.YanasTable, t.YanaID.Int64, t.YanaID.Valid, &src.Yana},
		{models.TranslationTypesTable, t.TranslationTypeID.Int64, t.TranslationTypeID.Valid, &src.TranslationType},
	}
	for _, l := range lookups {
		if !l.valid {
			continue
		}
		*l.dst, err = l.table.Find(ctx, index.db, l.id)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	return NewTextDocument(src), nil
}

// Search runs a multi match query over titles, identifiers and summaries.
func (index *TextsIndex) Search(ctx context.Context, q string, from, size int) (*SearchResult, error) {
	query := elastic.NewMultiMatchQuery(q, searchFields...).
		Type("best_fields").
		Operator("and")

	res, err := index.esc.Search().
		Index(index.name).
		Query(query).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "ES search")
	}

	result := &SearchResult{Hits: make([]*TextHit, 0)}
	if res.Hits == nil {
		return result, nil
	}

	result.Total = res.Hits.TotalHits
	for _, h := range res.Hits.Hits {
		doc := new(TextDocument)
		if h.Source != nil {
			if err := json.Unmarshal(*h.Source, doc); err != nil {
				return nil, errors.Wrapf(err, "json.Unmarshal hit %s", h.Id)
			}
		}
		hit := &TextHit{TextDocument: doc}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		result.Hits = append(result.Hits, hit)
	}

	return result, nil
}
