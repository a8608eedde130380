package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/vimmasterbot/vimmaster/vimmaster/database/models"
	"github.com/vimmasterbot/vimmaster/vimmaster/database/repositories"
)

// questSearchItems implements fuzzy.Source over the quest catalog.
type questSearchItems []*models.Quest

func (q questSearchItems) String(i int) string {
	return strings.ToLower(q[i].Title + " " + q[i].VimCommand)
}

func (q questSearchItems) Len() int { return len(q) }

// SearchService finds quests by approximate title or command match, for the
// catalog search box.
type SearchService struct {
	questRepo repositories.QuestRepository
}

func NewSearchService(questRepo repositories.QuestRepository) *SearchService {
	return &SearchService{questRepo: questRepo}
}

// SearchQuests returns up to limit quests ranked by fuzzy relevance. An
// empty query returns no results.
func (ss *SearchService) SearchQuests(ctx context.Context, query string, limit int) ([]*models.Quest, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	quests, err := ss.questRepo.GetAllQuests(ctx)
	if err != nil {
		return nil, err
	}

	items := questSearchItems(quests)
	matches := fuzzy.FindFrom(query, items)

	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}

	results := make([]*models.Quest, 0, limit)
	for _, match := range matches[:limit] {
		results = append(results, items[match.Index])
	}

	return results, nil
}
