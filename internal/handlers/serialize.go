package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/internal/models"
)

// Wire shapes follow the public contract: user fields keep their published
// names (nome, telefone) and is_valid defaults to true when never set.

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"nome":     u.Nome,
		"email":    u.Email,
		"telefone": u.Telefone,
		"is_valid": u.Valid(),
	}
}

func authorJSON(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"nome":     u.Nome,
		"telefone": u.Telefone,
		"email":    u.Email,
	}
}

func postJSON(p *models.Post) gin.H {
	return gin.H{
		"id":      p.ID,
		"title":   p.Title,
		"author":  authorJSON(&p.Author),
		"content": p.Content,
		"tags":    p.TagNames(),
	}
}

func postListJSON(posts []models.Post) []gin.H {
	out := make([]gin.H, len(posts))
	for i := range posts {
		out[i] = postJSON(&posts[i])
	}
	return out
}

func commentJSON(cm *models.Comment) gin.H {
	return gin.H{
		"id":      cm.ID,
		"content": cm.Content,
		"user": gin.H{
			"id":    cm.User.ID,
			"nome":  cm.User.Nome,
			"email": cm.User.Email,
		},
		"created_at": cm.CreatedAt.Format(time.RFC3339),
	}
}

func tagJSON(t *models.Tag) gin.H {
	return gin.H{
		"id":          t.ID,
		"name":        t.Name,
		"posts_count": t.PostsCount,
	}
}
