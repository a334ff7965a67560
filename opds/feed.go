// Package opds renders a user's book collection as an OPDS 1.2 acquisition
// feed. OPDS (Open Publication Distribution System) is a syndication format
// for electronic publications based on Atom (RFC 4287).
package opds

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/MichaelGalloway404/BooksRead/book"
)

// Namespaces
const (
	NamespaceAtom = "http://www.w3.org/2005/Atom"
	NamespaceDC   = "http://purl.org/dc/terms/"
	NamespaceOpds = "http://opds-spec.org/2010/catalog"
)

// Media Types
const (
	TypeAcquisition = "application/atom+xml;profile=opds-catalog;kind=acquisition"
	TypeNavigation  = "application/atom+xml;profile=opds-catalog;kind=navigation"
)

// Link Relations
const (
	RelSelf           = "self"
	RelStart          = "start"
	RelImage          = "http://opds-spec.org/image"
	RelImageThumbnail = "http://opds-spec.org/image/thumbnail"
	RelAlternate      = "alternate"
)

// Feed represents an OPDS Atom feed
type Feed struct {
	XMLName xml.Name  `xml:"feed"`
	Xmlns   string    `xml:"xmlns,attr"`
	XmlnsDc string    `xml:"xmlns:dc,attr,omitempty"`
	ID      string    `xml:"id"`
	Title   string    `xml:"title"`
	Updated time.Time `xml:"updated"`
	Author  *Author   `xml:"author,omitempty"`
	Links   []Link    `xml:"link"`
	Entries []Entry   `xml:"entry"`
}

// Entry represents one book in the feed
type Entry struct {
	ID      string    `xml:"id"`
	Title   string    `xml:"title"`
	Updated time.Time `xml:"updated"`
	Authors []Author  `xml:"author,omitempty"`
	Links   []Link    `xml:"link"`
}

// Author represents an Atom author element
type Author struct {
	Name string `xml:"name"`
	URI  string `xml:"uri,omitempty"`
}

// Link represents an Atom link
type Link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr,omitempty"`
}

// CollectionFeed builds an acquisition feed listing the user's collection.
// Cover images are linked with both the full-size and thumbnail relations so
// OPDS readers that only honor one of them still show artwork.
func CollectionFeed(user *book.User, entries []book.Entry, selfURL string) *Feed {
	now := time.Now().UTC()

	feed := &Feed{
		Xmlns:   NamespaceAtom,
		XmlnsDc: NamespaceDC,
		ID:      fmt.Sprintf("urn:booksread:users:%d", user.ID),
		Title:   fmt.Sprintf("%s's Books", user.Username),
		Updated: now,
		Author: &Author{
			Name: "BooksRead",
		},
		Links: []Link{
			{Rel: RelSelf, Href: selfURL, Type: TypeAcquisition},
			{Rel: RelStart, Href: "/", Type: TypeNavigation},
		},
		Entries: make([]Entry, 0, len(entries)),
	}

	for _, e := range entries {
		entry := Entry{
			ID:      fmt.Sprintf("urn:booksread:entries:%d", e.ID),
			Title:   e.Title,
			Updated: now,
			Authors: []Author{{Name: e.Author}},
		}
		if e.CoverURL != "" {
			entry.Links = append(entry.Links,
				Link{Rel: RelImage, Href: e.CoverURL, Type: "image/jpeg"},
				Link{Rel: RelImageThumbnail, Href: e.CoverURL, Type: "image/jpeg"},
			)
		}
		feed.Entries = append(feed.Entries, entry)
	}

	return feed
}
