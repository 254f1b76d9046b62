package models

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
)

// KagyurText is an object representing the database table.
type KagyurText struct {
	ID                int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	SubCategoryID     int64       `boil:"sub_category_id" json:"sub_category_id" toml:"sub_category_id" yaml:"sub_category_id"`
	DergeID           null.String `boil:"derge_id" json:"derge_id" toml:"derge_id" yaml:"derge_id"`
	YesheDeID         null.String `boil:"yeshe_de_id" json:"yeshe_de_id" toml:"yeshe_de_id" yaml:"yeshe_de_id"`
	TibetanTitle      null.String `boil:"tibetan_title" json:"tibetan_title" toml:"tibetan_title" yaml:"tibetan_title"`
	ChineseTitle      null.String `boil:"chinese_title" json:"chinese_title" toml:"chinese_title" yaml:"chinese_title"`
	SanskritTitle     null.String `boil:"sanskrit_title" json:"sanskrit_title" toml:"sanskrit_title" yaml:"sanskrit_title"`
	EnglishTitle      null.String `boil:"english_title" json:"english_title" toml:"english_title" yaml:"english_title"`
	SermonID          null.Int64  `boil:"sermon_id" json:"sermon_id" toml:"sermon_id" yaml:"sermon_id"`
	YanaID            null.Int64  `boil:"yana_id" json:"yana_id" toml:"yana_id" yaml:"yana_id"`
	TranslationTypeID null.Int64  `boil:"translation_type_id" json:"translation_type_id" toml:"translation_type_id" yaml:"translation_type_id"`
	OrderIndex        int         `boil:"order_index" json:"order_index" toml:"order_index" yaml:"order_index"`
	IsActive          bool        `boil:"is_active" json:"is_active" toml:"is_active" yaml:"is_active"`
	CreatedAt         time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var KagyurTextColumns = struct {
	ID                string
	SubCategoryID     string
	DergeID           string
	YesheDeID         string
	TibetanTitle      string
	ChineseTitle      string
	SanskritTitle     string
	EnglishTitle      string
	SermonID          string
	YanaID            string
	TranslationTypeID string
	OrderIndex        string
	IsActive          string
}{
	ID:                "id",
	SubCategoryID:     "sub_category_id",
	DergeID:           "derge_id",
	YesheDeID:         "yeshe_de_id",
	TibetanTitle:      "tibetan_title",
	ChineseTitle:      "chinese_title",
	SanskritTitle:     "sanskrit_title",
	EnglishTitle:      "english_title",
	SermonID:          "sermon_id",
	YanaID:            "yana_id",
	TranslationTypeID: "translation_type_id",
	OrderIndex:        "order_index",
	IsActive:          "is_active",
}

var kagyurTextColumnsWithoutDefault = []string{
	"sub_category_id", "derge_id", "yeshe_de_id",
	"tibetan_title", "chinese_title", "sanskrit_title", "english_title",
	"sermon_id", "yana_id", "translation_type_id",
	"order_index", "is_active", "created_at", "updated_at",
}

func (o *KagyurText) values() []interface{} {
	return []interface{}{
		o.SubCategoryID, o.DergeID, o.YesheDeID,
		o.TibetanTitle, o.ChineseTitle, o.SanskritTitle, o.EnglishTitle,
		o.SermonID, o.YanaID, o.TranslationTypeID,
		o.OrderIndex, o.IsActive, o.CreatedAt, o.UpdatedAt,
	}
}

type KagyurTextQuery = Query[KagyurText]

// KagyurTexts retrieves all the records using an executor.
func KagyurTexts(mods ...qm.QueryMod) KagyurTextQuery {
	return newTableQuery[KagyurText]("kagyur_texts", mods)
}

// FindKagyurText retrieves a single record by ID.
func FindKagyurText(ctx context.Context, exec boil.ContextExecutor, id int64) (*KagyurText, error) {
	return KagyurTexts(qm.Where("id=?", id)).One(ctx, exec)
}

func (o *KagyurText) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "kagyur_texts", kagyurTextColumnsWithoutDefault, o.values(), o)
}

func (o *KagyurText) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "kagyur_texts", o.ID, kagyurTextColumnsWithoutDefault, o.values(), o)
}

// Delete removes the text. Summary, spans, volumes and audio cascade.
func (o *KagyurText) Delete(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	return deleteRow(ctx, exec, "kagyur_texts", o.ID)
}

// TextSummary is an object representing the database table.
type TextSummary struct {
	ID                        int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	TextID                    int64       `boil:"text_id" json:"text_id" toml:"text_id" yaml:"text_id"`
	TranslatorHomageEnglish   null.String `boil:"translator_homage_english" json:"translator_homage_english" toml:"translator_homage_english" yaml:"translator_homage_english"`
	TranslatorHomageTibetan   null.String `boil:"translator_homage_tibetan" json:"translator_homage_tibetan" toml:"translator_homage_tibetan" yaml:"translator_homage_tibetan"`
	PurposeEnglish            null.String `boil:"purpose_english" json:"purpose_english" toml:"purpose_english" yaml:"purpose_english"`
	PurposeTibetan            null.String `boil:"purpose_tibetan" json:"purpose_tibetan" toml:"purpose_tibetan" yaml:"purpose_tibetan"`
	TextSummaryEnglish        null.String `boil:"text_summary_english" json:"text_summary_english" toml:"text_summary_english" yaml:"text_summary_english"`
	TextSummaryTibetan        null.String `boil:"text_summary_tibetan" json:"text_summary_tibetan" toml:"text_summary_tibetan" yaml:"text_summary_tibetan"`
	KeywordAndMeaningEnglish  null.String `boil:"keyword_and_meaning_english" json:"keyword_and_meaning_english" toml:"keyword_and_meaning_english" yaml:"keyword_and_meaning_english"`
	KeywordAndMeaningTibetan  null.String `boil:"keyword_and_meaning_tibetan" json:"keyword_and_meaning_tibetan" toml:"keyword_and_meaning_tibetan" yaml:"keyword_and_meaning_tibetan"`
	RelationEnglish           null.String `boil:"relation_english" json:"relation_english" toml:"relation_english" yaml:"relation_english"`
	RelationTibetan           null.String `boil:"relation_tibetan" json:"relation_tibetan" toml:"relation_tibetan" yaml:"relation_tibetan"`
	QuestionAndAnswerEnglish  null.String `boil:"question_and_answer_english" json:"question_and_answer_english" toml:"question_and_answer_english" yaml:"question_and_answer_english"`
	QuestionAndAnswerTibetan  null.String `boil:"question_and_answer_tibetan" json:"question_and_answer_tibetan" toml:"question_and_answer_tibetan" yaml:"question_and_answer_tibetan"`
	TranslatorNotesEnglish    null.String `boil:"translator_notes_english" json:"translator_notes_english" toml:"translator_notes_english" yaml:"translator_notes_english"`
	TranslatorNotesTibetan    null.String `boil:"translator_notes_tibetan" json:"translator_notes_tibetan" toml:"translator_notes_tibetan" yaml:"translator_notes_tibetan"`
	CreatedAt                 time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt                 time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var textSummaryColumnsWithoutDefault = []string{
	"text_id",
	"translator_homage_english", "translator_homage_tibetan",
	"purpose_english", "purpose_tibetan",
	"text_summary_english", "text_summary_tibetan",
	"keyword_and_meaning_english", "keyword_and_meaning_tibetan",
	"relation_english", "relation_tibetan",
	"question_and_answer_english", "question_and_answer_tibetan",
	"translator_notes_english", "translator_notes_tibetan",
	"created_at", "updated_at",
}

func (o *TextSummary) values() []interface{} {
	return []interface{}{
		o.TextID,
		o.TranslatorHomageEnglish, o.TranslatorHomageTibetan,
		o.PurposeEnglish, o.PurposeTibetan,
		o.TextSummaryEnglish, o.TextSummaryTibetan,
		o.KeywordAndMeaningEnglish, o.KeywordAndMeaningTibetan,
		o.RelationEnglish, o.RelationTibetan,
		o.QuestionAndAnswerEnglish, o.QuestionAndAnswerTibetan,
		o.TranslatorNotesEnglish, o.TranslatorNotesTibetan,
		o.CreatedAt, o.UpdatedAt,
	}
}

type TextSummaryQuery = Query[TextSummary]

// TextSummaries retrieves all the records using an executor.
func TextSummaries(mods ...qm.QueryMod) TextSummaryQuery {
	return newTableQuery[TextSummary]("text_summaries", mods)
}

func (o *TextSummary) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "text_summaries", textSummaryColumnsWithoutDefault, o.values(), o)
}

func (o *TextSummary) Update(ctx context.Context, exec boil.ContextExecutor) error {
	o.UpdatedAt = now()
	return updateRow(ctx, exec, "text_summaries", o.ID, textSummaryColumnsWithoutDefault, o.values(), o)
}

// YesheDeSpan is an object representing the database table.
type YesheDeSpan struct {
	ID        int64     `boil:"id" json:"id" toml:"id" yaml:"id"`
	TextID    int64     `boil:"text_id" json:"text_id" toml:"text_id" yaml:"text_id"`
	CreatedAt time.Time `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var yesheDeSpanColumnsWithoutDefault = []string{"text_id", "created_at", "updated_at"}

type YesheDeSpanQuery = Query[YesheDeSpan]

// YesheDeSpans retrieves all the records using an executor.
func YesheDeSpans(mods ...qm.QueryMod) YesheDeSpanQuery {
	return newTableQuery[YesheDeSpan]("yeshe_de_spans", mods)
}

func (o *YesheDeSpan) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "yeshe_de_spans", yesheDeSpanColumnsWithoutDefault,
		[]interface{}{o.TextID, o.CreatedAt, o.UpdatedAt}, o)
}

// Volume is an object representing the database table.
type Volume struct {
	ID            int64       `boil:"id" json:"id" toml:"id" yaml:"id"`
	YesheDeSpanID int64       `boil:"yeshe_de_span_id" json:"yeshe_de_span_id" toml:"yeshe_de_span_id" yaml:"yeshe_de_span_id"`
	VolumeNumber  null.String `boil:"volume_number" json:"volume_number" toml:"volume_number" yaml:"volume_number"`
	StartPage     null.String `boil:"start_page" json:"start_page" toml:"start_page" yaml:"start_page"`
	EndPage       null.String `boil:"end_page" json:"end_page" toml:"end_page" yaml:"end_page"`
	OrderIndex    int         `boil:"order_index" json:"order_index" toml:"order_index" yaml:"order_index"`
	CreatedAt     time.Time   `boil:"created_at" json:"created_at" toml:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time   `boil:"updated_at" json:"updated_at" toml:"updated_at" yaml:"updated_at"`
}

var volumeColumnsWithoutDefault = []string{"yeshe_de_span_id", "volume_number", "start_page", "end_page", "order_index", "created_at", "updated_at"}

type VolumeQuery = Query[Volume]

// Volumes retrieves all the records using an executor.
func Volumes(mods ...qm.QueryMod) VolumeQuery {
	return newTableQuery[Volume]("volumes", mods)
}

func (o *Volume) Insert(ctx context.Context, exec boil.ContextExecutor) error {
	t := now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = t
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = t
	}
	return insertRow(ctx, exec, "volumes", volumeColumnsWithoutDefault,
		[]interface{}{o.YesheDeSpanID, o.VolumeNumber, o.StartPage, o.EndPage, o.OrderIndex, o.CreatedAt, o.UpdatedAt}, o)
}
