package feeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/karchag/karchag-backend/consts"
	"github.com/karchag/karchag-backend/models"
)

func TestNewsFeed(t *testing.T) {
	published := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	news := []*models.KagyurNews{
		{
			ID:             5,
			EnglishTitle:   "New volume catalogued",
			TibetanTitle:   "དཀར་ཆག་གསར་པ།",
			EnglishContent: "<p>The <b>Derge</b> volume is <a href=\"http://x\">online</a>.</p>",
			TibetanContent: "<p>བཀའ་འགྱུར།</p>",
			PublishedDate:  null.TimeFrom(published),
		},
	}

	feed := NewsFeed(news, "https://karchag.example.org/", consts.LANG_ENGLISH)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "https://karchag.example.org/api/v1/news/5", feed.Items[0].Link)
	assert.Equal(t, "New volume catalogued", feed.Items[0].Title)
	assert.NotContains(t, feed.Items[0].Description.Text, "<b>")
	assert.NotContains(t, feed.Items[0].Description.Text, "http://x")
	assert.Equal(t, published, feed.Updated)

	xml, err := feed.RssFeed("https://karchag.example.org/api/v1/feeds/news.rss").ToXML()
	require.Nil(t, err)
	assert.Contains(t, xml, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	assert.Contains(t, xml, "<pubDate>Sun, 10 Mar 2024 08:00:00 GMT</pubDate>")
	assert.Contains(t, xml, `rel="self"`)
	assert.Contains(t, xml, "<![CDATA[")

	bo := NewsFeed(news, "https://karchag.example.org", consts.LANG_TIBETAN)
	assert.Equal(t, "bo", bo.Language)
	assert.Equal(t, "དཀར་ཆག་གསར་པ།", bo.Items[0].Title)
}

func TestAnyTimeFormat(t *testing.T) {
	assert.Equal(t, "", anyTimeFormat(time.RFC1123))
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "Tue, 02 Jan 2024 02:04:05 GMT", anyTimeFormat(time.RFC1123, time.Time{}, ts))
}
