package models

// NewsArticle is one sanitized news search result. Title and Description have
// HTML tags stripped and the common entities decoded by the news client.
type NewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	PubDate     string `json:"pub_date"`
}
