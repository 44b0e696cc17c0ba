package store

import (
	"fmt"
	"sort"

	"inkwell/internal/models"
)

// MergeActivity folds recent posts and comments into one feed, newest first.
// Shared by the gorm and memory stores so both produce the same wire shape.
func MergeActivity(posts []models.Post, comments []models.Comment) []Activity {
	feed := make([]Activity, 0, len(posts)+len(comments))
	for _, p := range posts {
		feed = append(feed, Activity{
			Type:        "post_created",
			Description: fmt.Sprintf("Post %q was created", p.Title),
			User:        p.Author.Nome,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, c := range comments {
		feed = append(feed, Activity{
			Type:        "comment_added",
			Description: fmt.Sprintf("Comment added to post %q", c.Post.Title),
			User:        c.User.Nome,
			CreatedAt:   c.CreatedAt,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return feed
}
