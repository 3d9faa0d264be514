// Package domain contains the article model and its read-side rules.
package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// PlaceholderImage is shown when an article or author has no image.
const PlaceholderImage = "/static/img/placeholder.svg"

// Article is a snapshot of a dev.to article as returned by the API. Values
// are never mutated after decoding.
type Article struct {
	ID                 int64         `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	Slug               string        `json:"slug"`
	Path               string        `json:"path"`
	URL                string        `json:"url"`
	CanonicalURL       string        `json:"canonical_url"`
	BodyHTML           string        `json:"body_html"`
	BodyMarkdown       string        `json:"body_markdown"`
	PublishedAt        time.Time     `json:"published_at"`
	ReadingTimeMinutes int           `json:"reading_time_minutes"`
	PositiveReactions  int           `json:"positive_reactions_count"`
	PublicReactions    int           `json:"public_reactions_count"`
	CommentsCount      int           `json:"comments_count"`
	Tags               TagList       `json:"tag_list"`
	CoverImage         string        `json:"cover_image"`
	SocialImage        string        `json:"social_image"`
	User               Author        `json:"user"`
	Organization       *Organization `json:"organization"`
}

// Author is the embedded user record of an article.
type Author struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	TwitterUsername string `json:"twitter_username"`
	GitHubUsername  string `json:"github_username"`
	WebsiteURL      string `json:"website_url"`
	ProfileImage    string `json:"profile_image"`
	ProfileImage90  string `json:"profile_image_90"`
}

// Organization is set when an article was published under an organisation.
type Organization struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Slug         string `json:"slug"`
	ProfileImage string `json:"profile_image_90"`
}

// UnmarshalJSON decodes the API shape. The single-article endpoint puts the
// tag array under "tags" and a comma-separated string under "tag_list"; list
// endpoints do the opposite. Whichever field yields tags first wins.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	var raw struct {
		plain
		AltTags TagList `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Article(raw.plain)
	if len(a.Tags) == 0 {
		a.Tags = raw.AltTags
	}
	if a.Tags == nil {
		a.Tags = TagList{}
	}
	return nil
}

// FormattedDate renders the publication date as "January 2, 2006".
func (a Article) FormattedDate() string {
	if a.PublishedAt.IsZero() {
		return ""
	}
	return a.PublishedAt.Format("January 2, 2006")
}

// ReadingTime renders the reading-time estimate as "N min read".
func (a Article) ReadingTime() string {
	return strconv.Itoa(a.ReadingTimeMinutes) + " min read"
}

// ImageURL prefers the cover image, then the social image.
func (a Article) ImageURL() string {
	switch {
	case a.CoverImage != "":
		return a.CoverImage
	case a.SocialImage != "":
		return a.SocialImage
	default:
		return PlaceholderImage
	}
}

// Href is the local detail page path.
func (a Article) Href() string {
	return "/blog/" + strconv.FormatInt(a.ID, 10)
}

// AvatarURL prefers the 90px profile image.
func (u Author) AvatarURL() string {
	switch {
	case u.ProfileImage90 != "":
		return u.ProfileImage90
	case u.ProfileImage != "":
		return u.ProfileImage
	default:
		return PlaceholderImage
	}
}

// TwitterURL is empty when the author has no Twitter handle.
func (u Author) TwitterURL() string {
	if u.TwitterUsername == "" {
		return ""
	}
	return "https://twitter.com/" + u.TwitterUsername
}

// GitHubURL is empty when the author has no GitHub handle.
func (u Author) GitHubURL() string {
	if u.GitHubUsername == "" {
		return ""
	}
	return "https://github.com/" + u.GitHubUsername
}

// MatchesSearch reports whether term occurs, case-insensitively, in the
// title, the description or any tag. An empty term matches everything.
func (a Article) MatchesSearch(term string) bool {
	needle := strings.ToLower(term)
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Description), needle) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// FilterArticles keeps the articles matching term, preserving order. The
// result is never nil.
func FilterArticles(articles []Article, term string) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.MatchesSearch(term) {
			out = append(out, a)
		}
	}
	return out
}
