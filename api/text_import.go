package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"gopkg.in/gin-gonic/gin.v1"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
	"github.com/karchag/karchag-backend/utils"
)

const (
	IMPORT_STATUS_SUCCESS = "success"
	IMPORT_STATUS_PARTIAL = "partial_success"
	IMPORT_STATUS_FAILED  = "failed"
)

var errUnsupportedImport = errors.New("Only CSV and JSON files are supported")

var errImportTooLarge = errors.Errorf("Import file exceeds %d MB", consts.MAX_IMPORT_SIZE>>20)

// TextImporter creates texts from CSV or JSON files.
// Every row is committed on its own.
type TextImporter struct {
	DB     *sql.DB
	Logger ActivityLogger
	// OnCreate is called for every committed text
	OnCreate func(id int64)
	// MaxSize caps a JSON file, defaults to MAX_IMPORT_SIZE
	MaxSize int64
}

func BulkImportHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		NewBadRequestError(errors.New("No file uploaded")).Abort(c)
		return
	}
	defer file.Close()

	importer := &TextImporter{
		DB:     getDB(c),
		Logger: NewActivityLogger(c),
		OnCreate: func(id int64) {
			publishEvent(c, consts.E_TEXT_CREATE, consts.TBL_TEXTS, id)
		},
	}

	resp, herr := importer.ImportFile(c.Request.Context(), header.Filename, file)
	concludeRequest(c, resp, herr)
}

// ImportFile picks the format by file extension.
func (imp *TextImporter) ImportFile(ctx context.Context, name string, r io.Reader) (*ImportResponse, *HttpError) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return imp.ImportCSV(ctx, r)
	case ".json":
		return imp.ImportJSON(ctx, r)
	default:
		return nil, NewHttpError(http.StatusUnsupportedMediaType, errUnsupportedImport, gin.ErrorTypePublic)
	}
}

// ImportCSV expects a header row. Data rows are numbered from 2.
func (imp *TextImporter) ImportCSV(ctx context.Context, r io.Reader) (*ImportResponse, *HttpError) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, NewBadRequestError(errors.New("CSV file is empty"))
		}
		return nil, NewBadRequestError(errors.Wrap(err, "Invalid CSV file"))
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	resp := newImportResponse()
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			resp.addError(fmt.Sprintf("Row %d: %s", row, err.Error()))
			continue
		}

		item := itemFromCSV(cols, record)
		if msg := imp.importItem(ctx, item); msg != "" {
			resp.addError(fmt.Sprintf("Row %d: %s", row, msg))
		} else {
			resp.ImportedCount++
		}
	}

	return resp.conclude(), nil
}

// ImportJSON accepts a single object or an array of objects. Items are numbered from 1.
func (imp *TextImporter) ImportJSON(ctx context.Context, r io.Reader) (*ImportResponse, *HttpError) {
	limit := imp.MaxSize
	if limit <= 0 {
		limit = consts.MAX_IMPORT_SIZE
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, NewBadRequestError(errors.Wrap(err, "read file"))
	}
	if int64(len(data)) > limit {
		return nil, NewHttpError(http.StatusRequestEntityTooLarge, errImportTooLarge, gin.ErrorTypePublic)
	}

	var raw []json.RawMessage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, NewBadRequestError(errors.Errorf("Invalid JSON file: %s", utils.BindErrorMessage(err)))
		}
	} else {
		raw = []json.RawMessage{trimmed}
	}

	resp := newImportResponse()
	for i, msg := range raw {
		var item ImportItem
		if err := json.Unmarshal(msg, &item); err != nil {
			resp.addError(fmt.Sprintf("Item %d: %s", i+1, utils.BindErrorMessage(err)))
			continue
		}
		if e := imp.importItem(ctx, &item); e != "" {
			resp.addError(fmt.Sprintf("Item %d: %s", i+1, e))
		} else {
			resp.ImportedCount++
		}
	}

	return resp.conclude(), nil
}

// importItem validates references and inserts a single text tree in its own transaction.
// It returns an empty string on success.
func (imp *TextImporter) importItem(ctx context.Context, item *ImportItem) string {
	if item.SubCategoryID <= 0 {
		return "sub_category_id is required"
	}

	exists, err := models.SubCategories(qm.Where("id = ?", item.SubCategoryID)).Exists(ctx, imp.DB)
	if err != nil {
		log.Errorf("import: %s", err.Error())
		return "Database error"
	}
	if !exists {
		return fmt.Sprintf("Sub-category with ID %d not found", item.SubCategoryID)
	}

	refs := []struct {
		table models.LookupTable
		id    null.Int64
	}{
		{models.SermonsTable, nullID(item.SermonID)},
		{models.YanasTable, nullID(item.YanaID)},
		{models.TranslationTypesTable, nullID(item.TranslationTypeID)},
	}
	for _, ref := range refs {
		if !ref.id.Valid {
			continue
		}
		ok, err := ref.table.Exists(ctx, imp.DB, ref.id.Int64)
		if err != nil {
			log.Errorf("import: %s", err.Error())
			return "Database error"
		}
		if !ok {
			return fmt.Sprintf("%s with ID %d not found", ref.table.Label, ref.id.Int64)
		}
	}

	var t *models.KagyurText
	herr := inTransaction(ctx, imp.DB, func(tx *sql.Tx) *HttpError {
		var herr *HttpError
		if t, herr = insertTextTree(ctx, tx, item.SubCategoryID, item.TextCreateRequest); herr != nil {
			return herr
		}
		if err := imp.Logger.Log(ctx, tx, consts.AUDIT_CREATE, consts.TBL_TEXTS, t.ID, nil, t); err != nil {
			return NewInternalError(err)
		}
		return nil
	})
	if herr != nil {
		if herr.Type == gin.ErrorTypePublic {
			return herr.Error()
		}
		log.Errorf("import: %s", herr.Error())
		utils.LogError(herr.Err)
		return "Database error"
	}

	if imp.OnCreate != nil {
		imp.OnCreate(t.ID)
	}
	return ""
}

func itemFromCSV(cols map[string]int, record []string) *ImportItem {
	get := func(name string) string {
		if i, ok := cols[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	str := func(name string) null.String {
		if v := get(name); v != "" {
			return null.StringFrom(v)
		}
		return null.String{}
	}
	ref := func(name string) null.Int64 {
		v := get(name)
		if v == "" {
			return null.Int64{}
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			n = 0
		}
		return null.Int64From(n)
	}

	active := utils.ParseBoolOrTrue(get("is_active"))
	item := &ImportItem{
		TextCreateRequest: TextCreateRequest{
			DergeID:           str("derge_id"),
			YesheDeID:         str("yeshe_de_id"),
			TibetanTitle:      str("tibetan_title"),
			ChineseTitle:      str("chinese_title"),
			SanskritTitle:     str("sanskrit_title"),
			EnglishTitle:      str("english_title"),
			SermonID:          ref("sermon_id"),
			YanaID:            ref("yana_id"),
			TranslationTypeID: ref("translation_type_id"),
			OrderIndex:        utils.ParseIntOrZero(get("order_index")),
			IsActive:          &active,
		},
	}
	if n := ref("sub_category_id"); n.Valid {
		item.SubCategoryID = n.Int64
	}

	return item
}

func newImportResponse() *ImportResponse {
	return &ImportResponse{Errors: make([]string, 0)}
}

func (r *ImportResponse) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.ErrorCount++
}

func (r *ImportResponse) conclude() *ImportResponse {
	switch {
	case r.ErrorCount == 0:
		r.Status = IMPORT_STATUS_SUCCESS
	case r.ImportedCount > 0:
		r.Status = IMPORT_STATUS_PARTIAL
	default:
		r.Status = IMPORT_STATUS_FAILED
	}
	r.Message = fmt.Sprintf("Import completed: %d texts imported, %d errors", r.ImportedCount, r.ErrorCount)
	return r
}
