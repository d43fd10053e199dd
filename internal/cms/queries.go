package cms

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultPostCollection is the CMS collection holding blog posts. The name
// is the content type identifier the CMS generated for it.
const DefaultPostCollection = "contentType2WKn6YEnZewu2ScCkus4AsCollection"

const assetFields = `description
        url
        width
        height`

const chaptersQuery = `{
  chapters: chapterCollection(where: {active: true}) {
    items {
      title
      slug
      coords {
        lat
        lng: lon
      }
    }
  }
}`

const pageQueryFmt = `{
  pages: pageCollection(where: {slug: %s}) {
    items {
      title
      subtitle
      slug
      body
      cover {
        ` + assetFields + `
      }
    }
  }
}`

const postQueryFmt = `{
  posts: %s%s {
    items {
      title
      slug
      date
      body
      cover {
        ` + assetFields + `
      }
      author {
        name
        email
        homepage
        bio
        fieldOfStudy
        photo {
          title
          description
          url
        }
      }
    }
  }
}`

const jsonQueryFmt = `{
  json: jsonCollection(where: {title: %s}) {
    items {
      title
      data
      md
    }
  }
}`

// ChaptersQuery selects every active chapter.
func ChaptersQuery() string {
	return chaptersQuery
}

// PageQuery selects the pages whose slug equals slug.
func PageQuery(slug string) string {
	return fmt.Sprintf(pageQueryFmt, quote(slug))
}

// PostQuery selects posts from collection. An empty slug leaves out the
// where clause and matches every post.
func PostQuery(collection, slug string) string {
	if collection == "" {
		collection = DefaultPostCollection
	}
	filter := ""
	if slug != "" {
		filter = fmt.Sprintf("(where: {slug: %s})", quote(slug))
	}
	return fmt.Sprintf(postQueryFmt, collection, filter)
}

// JSONQuery selects the JSON blobs whose title equals title.
func JSONQuery(title string) string {
	return fmt.Sprintf(jsonQueryFmt, quote(title))
}

// quote renders s as a GraphQL string literal. JSON string escaping is a
// subset of GraphQL's, so the encoder output can be spliced in as is.
func quote(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}
