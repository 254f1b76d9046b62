package models

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// MainCategory is an object representing the database table.
type MainCategory struct {
	ID                 int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	NameEnglish        string      `boil:"name_english" json:"name_english" toml:"name_english" yaml:"name_english"`
	NameTibetan        null.String `boil:"name_tibetan" json:"name_tibetan" toml:"name_tibetan" yaml:"name_tibetan"`
	DescriptionEnglish null.String `boil:"description_english" json:"description_english" toml:"description_english" yaml:"description_english"`
	DescriptionTibetan null.String `boil:"description_tibetan" json:"description_tibetan" toml:"description_tibetan" yaml:"description_tibetan"`
	OrderIndex         int         `boil:"order_index" json:"order_index" toml:"order_index" yaml:"order_index"`
	IsActive           bool        `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt          time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var MainCategoryColumns = struct {
	ID                 string
	NameEnglish        string
	NameTibetan        string
	DescriptionEnglish string
	DescriptionTibetan string
	OrderIndex         string
	IsActive           string
	CreatedAt          string
	UpdatedAt          string
}{
	ID:                 "id",
	NameEnglish:        "name_english",
	NameTibetan:        "name_tibetan",
	DescriptionEnglish: "description_english",
	DescriptionTibetan: "description_tibetan",
	OrderIndex:         "order_index",
	IsActive:           "is_active",
	CreatedAt:          "created_at",
	UpdatedAt:          "updated_at",
}

var mainCategoryColumnsWithoutDefault = []string{"name_english", "name_tibetan", "description_english", "description_tibetan", "order_index", "is_active", "created_at", "updated_at"}

func (o *MainCategory) values() []interface{} {
	return []interface{}{o.NameEnglish, o.NameTibetan, o.DescriptionEnglish, o.DescriptionTibetan, o.OrderIndex, o.IsActive, o.CreatedAt, o.UpdatedAt}
}

type MainCategoryQuery = Query[MainCategory]

// MainCategories retrieves all the records using an executor.
func MainCategories(mods ...qm.QueryMod) MainCategoryQuery {
	return newTableQuery[MainCategory]("main_categories", mods)
}

// FindMainCategory retrieves a single record by ID.
func FindMainCategory(ctx context.Context, exec boil.ContextExecutor, id int64) (*MainCategory, error) {
	return MainCategories(qm.Where("id=?", id)).One(ctx, exec)
}

// Insert a single record. Timestamps are set when zero.
func (o *MainCategory) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "main_categories", mainCategoryColumnsWithoutDefault, o.values(), o)
}

// Update writes all columns of this record and bumps updated_at.
func (o *MainCategory) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "main_categories", o.ID, mainCategoryColumnsWithoutDefault, o.values(), o)
}

// Delete deletes a single MainCategory record.
func (o *MainCategory) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "main_categories", o.ID)
}

// SubCategory is an object representing the database table.
type SubCategory struct {
	ID                 int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	MainCategoryID     int64       `boil:"main_category_id" json:"main_category_id" toml:"main_category_id" yaml:"main_category_id"`
	NameEnglish        string      `boil:"name_english" json:"name_english" toml:"name_english" yaml:"name_english"`
	NameTibetan        null.String `boil:"name_tibetan" json:"name_tibetan" toml:"name_tibetan" yaml:"name_tibetan"`
	DescriptionEnglish null.String `boil:"description_english" json:"description_english" toml:"description_english" yaml:"description_english"`
	DescriptionTibetan null.String `boil:"description_tibetan" json:"description_tibetan" toml:"description_tibetan" yaml:"description_tibetan"`
	OrderIndex         int         `boil:"order_index" json:"order_index" toml:"order_index" yaml:"order_index"`
	IsActive           bool        `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt          time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var SubCategoryColumns = struct {
	ID             string
	MainCategoryID string
	NameEnglish    string
	OrderIndex     string
	IsActive       string
}{
	ID:             "id",
	MainCategoryID: "main_category_id",
	NameEnglish:    "name_english",
	OrderIndex:     "order_index",
	IsActive:       "is_active",
}

var subCategoryColumnsWithoutDefault = []string{"main_category_id", "name_english", "name_tibetan", "description_english", "description_tibetan", "order_index", "is_active", "created_at", "updated_at"}

func (o *SubCategory) values() []interface{} {
	return []interface{}{o.MainCategoryID, o.NameEnglish, o.NameTibetan, o.DescriptionEnglish, o.DescriptionTibetan, o.OrderIndex, o.IsActive, o.CreatedAt, o.UpdatedAt}
}

type SubCategoryQuery = Query[SubCategory]

// SubCategories retrieves all the records using an executor.
func SubCategories(mods ...qm.QueryMod) SubCategoryQuery {
	return newTableQuery[SubCategory]("sub_categories", mods)
}

// FindSubCategory retrieves a single record by ID.
func FindSubCategory(ctx context.Context, exec boil.ContextExecutor, id int64) (*SubCategory, error) {
	return SubCategories(qm.Where("id=?", id)).One(ctx, exec)
}

// FindSubCategoryInCategory retrieves a sub category only if it belongs to the given main category.
func FindSubCategoryInCategory(ctx context.Context, exec boil.ContextExecutor, categoryID, id int64) (*SubCategory, error) {
	return SubCategories(qm.Where("id=? AND main_category_id=?", id, categoryID)).One(ctx, exec)
}

func (o *SubCategory) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "sub_categories", subCategoryColumnsWithoutDefault, o.values(), o)
}

func (o *SubCategory) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "sub_categories", o.ID, subCategoryColumnsWithoutDefault, o.values(), o)
}

func (o *SubCategory) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "sub_categories", o.ID)
}
