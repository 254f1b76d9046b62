package es

import (
	"strings"
	"time"

	"jaytaylor.com/html2text"

	"github.com/karchag/karchag-backend/models"
)

const DOC_TYPE = "text"

// TextDocument is what we keep in the texts index
type TextDocument struct {
	ID              int64     `json:"id"`
	MainCategoryID  int64     `json:"main_category_id"`
	SubCategoryID   int64     `json:"sub_category_id"`
	DergeID         string    `json:"derge_id,omitempty"`
	YesheDeID       string    `json:"yeshe_de_id,omitempty"`
	TibetanTitle    string    `json:"tibetan_title,omitempty"`
	ChineseTitle    string    `json:"chinese_title,omitempty"`
	SanskritTitle   string    `json:"sanskrit_title,omitempty"`
	EnglishTitle    string    `json:"english_title,omitempty"`
	Sermon          string    `json:"sermon,omitempty"`
	Yana            string    `json:"yana,omitempty"`
	TranslationType string    `json:"translation_type,omitempty"`
	SummaryEnglish  string    `json:"summary_english,omitempty"`
	SummaryTibetan  string    `json:"summary_tibetan,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TextHit struct {
	Score float64 `json:"score"`
	*TextDocument
}

type SearchResult struct {
	Total int64      `json:"total"`
	Hits  []*TextHit `json:"hits"`
}

// TextSource gathers everything a document is built from.
type TextSource struct {
	Text            *models.KagyurText
	SubCategory     *models.SubCategory
	Summary         *models.TextSummary
	Sermon          *models.Lookup
	Yana            *models.Lookup
	TranslationType *models.Lookup
}

func NewTextDocument(src TextSource) *TextDocument {
	t := src.Text
	doc := &TextDocument{
		ID:            t.ID,
		SubCategoryID: t.SubCategoryID,
		DergeID:       t.DergeID.String,
		YesheDeID:     t.YesheDeID.String,
		TibetanTitle:  t.TibetanTitle.String,
		ChineseTitle:  t.ChineseTitle.String,
		SanskritTitle: t.SanskritTitle.String,
		EnglishTitle:  t.EnglishTitle.String,
		UpdatedAt:     t.UpdatedAt,
	}

	if src.SubCategory != nil {
		doc.MainCategoryID = src.SubCategory.MainCategoryID
	}
	if src.Sermon != nil {
		doc.Sermon = src.Sermon.NameEnglish
	}
	if src.Yana != nil {
		doc.Yana = src.Yana.NameEnglish
	}
	if src.TranslationType != nil {
		doc.TranslationType = src.TranslationType.NameEnglish
	}

	if s := src.Summary; s != nil {
		doc.SummaryEnglish = plainText(
			s.TranslatorHomageEnglish.String, s.PurposeEnglish.String, s.TextSummaryEnglish.String,
			s.KeywordAndMeaningEnglish.String, s.RelationEnglish.String,
			s.QuestionAndAnswerEnglish.String, s.TranslatorNotesEnglish.String)
		doc.SummaryTibetan = plainText(
			s.TranslatorHomageTibetan.String, s.PurposeTibetan.String, s.TextSummaryTibetan.String,
			s.KeywordAndMeaningTibetan.String, s.RelationTibetan.String,
			s.QuestionAndAnswerTibetan.String, s.TranslatorNotesTibetan.String)
	}

	return doc
}

// plainText strips markup from summary sections and joins the non empty ones.
func plainText(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		text, err := html2text.FromString(p, html2text.Options{OmitLinks: true})
		if err != nil {
			text = p
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return strings.Join(out, "\n\n")
}
