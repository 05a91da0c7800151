package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
)

type FeedEntry struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// GetFeed interleaves the latest published posts of every content type so
// the home page shows all three categories even when one of them floods.
func GetFeed(limit int, cursor *time.Time) ([]FeedEntry, error) {
	var feed []FeedEntry

	perType := limit / len(models.PostTypes)
	if perType < 1 {
		perType = 1
	}

	for _, postType := range models.PostTypes {
		tx := FilterPostWithType(FilterPostDraft(database.C), postType)
		if cursor != nil {
			tx = tx.Where("created_at < ?", *cursor)
		}

		items, err := ListPost(tx, perType, 0, "created_at DESC")
		if err != nil {
			return feed, fmt.Errorf("failed to load %s posts for feed: %v", postType, err)
		}

		for _, item := range items {
			feed = append(feed, FeedEntry{
				Type:      item.Type,
				Data:      item,
				CreatedAt: item.CreatedAt,
			})
		}
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	if len(feed) > limit {
		feed = feed[:limit]
	}

	return feed, nil
}
