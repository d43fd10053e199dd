// Package model defines the CMS records and client-side state types.
package model

import "encoding/json"

// Coords is a chapter location. The CMS field "lon" is aliased to "lng".
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Chapter is an active local chapter shown on the map.
type Chapter struct {
	Title  string  `json:"title"`
	Slug   string  `json:"slug"`
	Coords *Coords `json:"coords,omitempty"`
}

// Asset is a CMS media asset, used for covers and author photos.
type Asset struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Page is a standalone content page.
type Page struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Slug     string `json:"slug"`
	Body     string `json:"body,omitempty"`
	Cover    *Asset `json:"cover,omitempty"`
}

// Author is the writer of a blog post.
type Author struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Homepage     string `json:"homepage,omitempty"`
	Bio          string `json:"bio,omitempty"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	Photo        *Asset `json:"photo,omitempty"`
}

// Post is a blog post.
type Post struct {
	Title  string  `json:"title"`
	Slug   string  `json:"slug"`
	Date   string  `json:"date,omitempty"`
	Body   string  `json:"body,omitempty"`
	Cover  *Asset  `json:"cover,omitempty"`
	Author *Author `json:"author,omitempty"`
}

// JSONBlob is a named piece of structured content. Data is kept raw since
// its shape differs per title.
type JSONBlob struct {
	Title string          `json:"title"`
	Data  json.RawMessage `json:"data,omitempty"`
	MD    string          `json:"md,omitempty"`
}

// SiteIndex bundles the collections needed to render the landing page.
type SiteIndex struct {
	Chapters []Chapter `json:"chapters"`
	Posts    []Post    `json:"posts"`
}
