package feeds

import (
	"fmt"
	"strings"

	"jaytaylor.com/html2text"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

// NewsFeed builds the news channel. Items link to /api/v1/news/:id under baseURL.
func NewsFeed(news []*models.KagyurNews, baseURL string, lang string) *Feed {
	baseURL = strings.TrimRight(baseURL, "/")

	feed := &Feed{
		Title:       "Kangyur Karchag News",
		Link:        baseURL + "/api/v1/news",
		Description: "Latest news from the Buddhist Digital Library",
		Language:    "en",
		Items:       make([]*Item, 0, len(news)),
	}
	if lang == consts.LANG_TIBETAN {
		feed.Language = "bo"
	}

	for _, n := range news {
		title, content := n.EnglishTitle, n.EnglishContent
		if lang == consts.LANG_TIBETAN {
			title, content = n.TibetanTitle, n.TibetanContent
		}

		text, err := html2text.FromString(content, html2text.Options{OmitLinks: true})
		if err != nil {
			text = content
		}

		link := fmt.Sprintf("%s/api/v1/news/%d", baseURL, n.ID)
		item := &Item{
			Title:       title,
			Link:        link,
			Description: &Description{Text: strings.TrimSpace(text)},
			Guid:        link,
		}
		if n.PublishedDate.Valid {
			item.Created = n.PublishedDate.Time
		} else {
			item.Created = n.CreatedAt
		}
		if item.Created.After(feed.Updated) {
			feed.Updated = item.Created
		}

		feed.Items = append(feed.Items, item)
	}
	feed.Created = feed.Updated

	return feed
}
