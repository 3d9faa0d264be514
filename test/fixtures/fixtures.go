// Package fixtures provides dev.to API response bodies for tests.
package fixtures

import (
	"encoding/json"
	"fmt"
)

// ArticleListJSON is a list-endpoint page of three articles. Tags use the
// list shape: tag_list is an array, tags a comma-separated string. The third
// article has tag_list null.
func ArticleListJSON() string {
	return `[
  {
    "type_of": "article",
    "id": 101,
    "title": "Understanding React Server Components",
    "description": "What changes when components render on the server",
    "slug": "understanding-react-server-components-1a2b",
    "path": "/ada/understanding-react-server-components-1a2b",
    "url": "https://dev.to/ada/understanding-react-server-components-1a2b",
    "canonical_url": "https://dev.to/ada/understanding-react-server-components-1a2b",
    "comments_count": 12,
    "positive_reactions_count": 240,
    "public_reactions_count": 240,
    "cover_image": "https://media.dev.to/cover-101.png",
    "social_image": "https://media.dev.to/social-101.png",
    "published_at": "2025-05-02T09:30:00Z",
    "reading_time_minutes": 7,
    "tag_list": ["react", "webdev", "javascript"],
    "tags": "react, webdev, javascript",
    "user": {
      "name": "Ada Lovelace",
      "username": "ada",
      "twitter_username": "ada_l",
      "github_username": null,
      "website_url": null,
      "profile_image": "https://media.dev.to/ada.png",
      "profile_image_90": "https://media.dev.to/ada-90.png"
    }
  },
  {
    "type_of": "article",
    "id": 102,
    "title": "Go 1.24 iterators in practice",
    "description": "Range-over-func without the hype",
    "slug": "go-iterators-3c4d",
    "path": "/gopher/go-iterators-3c4d",
    "url": "https://dev.to/gopher/go-iterators-3c4d",
    "canonical_url": "https://dev.to/gopher/go-iterators-3c4d",
    "comments_count": 3,
    "positive_reactions_count": 88,
    "public_reactions_count": 88,
    "cover_image": null,
    "social_image": "https://media.dev.to/social-102.png",
    "published_at": "2025-05-01T18:00:00Z",
    "reading_time_minutes": 5,
    "tag_list": ["go", "programming"],
    "tags": "go, programming",
    "user": {
      "name": "Gopher",
      "username": "gopher",
      "profile_image": "https://media.dev.to/gopher.png",
      "profile_image_90": "https://media.dev.to/gopher-90.png"
    },
    "organization": {
      "name": "Go Community",
      "username": "golang",
      "slug": "golang",
      "profile_image": "https://media.dev.to/golang.png",
      "profile_image_90": "https://media.dev.to/golang-90.png"
    }
  },
  {
    "type_of": "article",
    "id": 103,
    "title": "CSS container queries",
    "description": "Responsive components, finally",
    "slug": "css-container-queries-5e6f",
    "path": "/lin/css-container-queries-5e6f",
    "url": "https://dev.to/lin/css-container-queries-5e6f",
    "comments_count": 0,
    "positive_reactions_count": 15,
    "public_reactions_count": 15,
    "cover_image": null,
    "social_image": null,
    "published_at": "2025-04-30T07:15:00Z",
    "reading_time_minutes": 4,
    "tag_list": null,
    "tags": "css, reactjs",
    "user": {
      "name": "Lin",
      "username": "lin",
      "profile_image": "",
      "profile_image_90": ""
    }
  }
]`
}

// SingleArticleJSON is the detail-endpoint shape of article 101: tag_list is
// a comma-separated string and tags is an array.
func SingleArticleJSON() string {
	return `{
  "type_of": "article",
  "id": 101,
  "title": "Understanding React Server Components",
  "description": "What changes when components render on the server",
  "slug": "understanding-react-server-components-1a2b",
  "url": "https://dev.to/ada/understanding-react-server-components-1a2b",
  "canonical_url": "https://dev.to/ada/understanding-react-server-components-1a2b",
  "comments_count": 12,
  "positive_reactions_count": 240,
  "public_reactions_count": 240,
  "cover_image": "https://media.dev.to/cover-101.png",
  "published_at": "2025-05-02T09:30:00Z",
  "reading_time_minutes": 7,
  "tag_list": "react, webdev, javascript",
  "tags": ["react", "webdev", "javascript"],
  "body_html": "<h2>Why</h2><p>Read the <a href=\"https://react.dev\">docs</a>.</p><img src=\"https://media.dev.to/diagram.png\">",
  "body_markdown": "## Why\n\nRead the [docs](https://react.dev).",
  "user": {
    "name": "Ada Lovelace",
    "username": "ada",
    "twitter_username": "ada_l",
    "github_username": "adalovelace",
    "website_url": "https://ada.example",
    "profile_image": "https://media.dev.to/ada.png",
    "profile_image_90": "https://media.dev.to/ada-90.png"
  }
}`
}

// GeneratedPage returns n list-shaped articles with ids starting at firstID.
// Every third article is tagged "react"; the rest are tagged "go".
func GeneratedPage(firstID, n int) string {
	type user struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	}
	type item struct {
		ID          int      `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		PublishedAt string   `json:"published_at"`
		TagList     []string `json:"tag_list"`
		User        user     `json:"user"`
	}

	items := make([]item, 0, n)
	for i := 0; i < n; i++ {
		tag := "go"
		if i%3 == 0 {
			tag = "react"
		}
		id := firstID + i
		items = append(items, item{
			ID:          id,
			Title:       fmt.Sprintf("Article %d", id),
			Description: fmt.Sprintf("Description of article %d", id),
			PublishedAt: "2025-01-01T00:00:00Z",
			TagList:     []string{tag},
			User:        user{Name: "Author", Username: "author"},
		})
	}

	data, err := json.Marshal(items)
	if err != nil {
		panic(err)
	}
	return string(data)
}
