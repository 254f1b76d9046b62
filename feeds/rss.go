package feeds

import (
	"encoding/xml"
	"strings"
	"time"
)

type AtomLink struct {
	XMLName xml.Name `xml:"atom:link"`
	Href    string   `xml:"href,attr"`
	Rel     string   `xml:"rel,attr"`
	Type    string   `xml:"type,attr"`
}

type Description struct {
	XMLName xml.Name `xml:"description"`
	Text    string   `xml:",cdata"`
}

type Feed struct {
	Title       string    `xml:"title"`       // required
	Link        string    `xml:"link"`        // required
	Description string    `xml:"description"` // required
	Language    string    `xml:"language"`
	Copyright   string    `xml:"copyright,omitempty"`
	PubDate     string    `xml:"pubDate,omitempty"`
	Created     time.Time `xml:"-"`
	Updated     time.Time `xml:"-"`
	Items       []*Item
}

type Channel struct {
	XMLName       xml.Name `xml:"channel"`
	AtomLink      *AtomLink
	Ttl           int    `xml:"ttl,omitempty"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	*Feed
}

type Item struct {
	XMLName     xml.Name     `xml:"item"`
	Title       string       `xml:"title"`       // required
	Link        string       `xml:"link"`        // required
	Description *Description `xml:"description"` // required
	Category    string       `xml:"category,omitempty"`
	Guid        string       `xml:"guid,omitempty"`
	PubDate     string       `xml:"pubDate,omitempty"` // created or updated
	Created     time.Time    `xml:"-"`
}

func (r *Feed) RssFeed(selfLink string) (channel *Channel) {
	if r.PubDate == "" {
		r.PubDate = anyTimeFormat(time.RFC1123, r.Created, time.Now())
	}
	for _, item := range r.Items {
		if item.PubDate == "" {
			item.PubDate = anyTimeFormat(time.RFC1123, item.Created, r.Created, time.Now())
		}
	}
	channel = &Channel{
		AtomLink: &AtomLink{
			Href: selfLink,
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Ttl:           600,
		LastBuildDate: anyTimeFormat(time.RFC1123, r.Updated, r.Created, time.Now()),
		Feed:          r,
	}
	return channel
}

// private wrapper around the RssFeed which gives us the <rss>..</rss> xml
type rssFeedXml struct {
	XMLName   xml.Name `xml:"rss"`
	Version   string   `xml:"version,attr"`
	XmlnsAtom string   `xml:"xmlns:atom,attr"`
	Channel   *Channel
}

// return XML-ready object for a Channel
func (c *Channel) FeedXml() interface{} {
	return &rssFeedXml{
		Version:   "2.0",
		XmlnsAtom: "http://www.w3.org/2005/Atom",
		Channel:   c,
	}
}

// returns the first non-zero time formatted as a string or ""
func anyTimeFormat(format string, times ...time.Time) string {
	for _, t := range times {
		if !t.IsZero() {
			// Always return GMT time by converting to UTC and then replacing UTC with GMT in the output string (RSS doesn't allow UTC)
			timeFormatted := t.UTC().Format(format)
			return strings.Replace(timeFormatted, "UTC", "GMT", -1)
		}
	}
	return ""
}

// turn a channel into xml
// returns an error if xml marshaling fails
func (c *Channel) ToXML() (string, error) {
	data, err := xml.MarshalIndent(c.FeedXml(), "", "  ")
	if err != nil {
		return "", err
	}
	// strip empty line from default xml header
	s := xml.Header[:len(xml.Header)-1] + string(data)
	return s, nil
}
