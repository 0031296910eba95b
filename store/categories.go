// Package store resolves topic metadata from the relational database:
// the category dictionary (what a topic is about) and the allowed
// data-source list. Both are read once per request by the handlers and
// treated as immutable from there on.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/strmangle"

	"github.com/pulseboard/listening-backend/dashboard"
	"github.com/pulseboard/listening-backend/utils"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type categoryRow struct {
	Title    string      `boil:"category_title"`
	Keywords null.String `boil:"topic_keywords"`
	Hashtags null.String `boil:"topic_hash_tags"`
	URLs     null.String `boil:"topic_urls"`
}

// GetCategories loads the category dictionary for a topic and any of
// its subtopics. Term lists come back trimmed, deduplicated,
// lowercased and sorted so resolution and query composition are
// deterministic. An empty dictionary means "no categories configured"
// and is not an error.
func (s *Store) GetCategories(ctx context.Context, topicIDs ...int64) (dashboard.CategoryDictionary, error) {
	dict := make(dashboard.CategoryDictionary)
	if len(topicIDs) == 0 {
		return dict, nil
	}

	args := make([]interface{}, len(topicIDs))
	for i, id := range topicIDs {
		args[i] = id
	}

	var rows []categoryRow
	query := fmt.Sprintf(
		`SELECT category_title, topic_keywords, topic_hash_tags, topic_urls
		 FROM topic_categories
		 WHERE customer_topic_id IN (%s)`,
		strmangle.Placeholders(true, len(args), 1, 1))
	if err := queries.Raw(query, args...).Bind(ctx, s.db, &rows); err != nil {
		return nil, errors.Wrap(err, "load topic categories")
	}

	for _, row := range rows {
		title := strings.TrimSpace(row.Title)
		if title == "" {
			continue
		}
		dict[title] = dashboard.CategoryEntry{
			Keywords: normalizeTerms(row.Keywords.String),
			Hashtags: normalizeTerms(row.Hashtags.String),
			URLs:     normalizeTerms(row.URLs.String),
		}
	}
	return dict, nil
}

type topicRow struct {
	DataSources null.String `boil:"topic_data_source"`
}

// GetAvailableSources returns the platform allow-list configured for a
// topic. Empty means no restriction: callers fall back to the default
// roster.
func (s *Store) GetAvailableSources(ctx context.Context, topicID int64) ([]string, error) {
	var rows []topicRow
	err := queries.Raw(
		`SELECT topic_data_source FROM customer_topics WHERE id = $1`,
		topicID).Bind(ctx, s.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "load topic data sources")
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return utils.SplitCSV(rows[0].DataSources.String), nil
}

type entityRow struct {
	Entities null.String `boil:"topic_urls"`
}

// GetTopicEntities returns the tracked entity names (account handles,
// page URLs) configured for a topic. The Entity/Public data-source
// split matches posts authored by these entities; empty means the
// split has nothing to match and stays inert.
func (s *Store) GetTopicEntities(ctx context.Context, topicID int64) ([]string, error) {
	var rows []entityRow
	err := queries.Raw(
		`SELECT topic_urls FROM customer_topics WHERE id = $1`,
		topicID).Bind(ctx, s.db, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "load topic entities")
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return utils.SplitCSV(rows[0].Entities.String), nil
}

func normalizeTerms(csv string) []string {
	terms := utils.SplitCSV(csv)
	for i := range terms {
		terms[i] = strings.ToLower(terms[i])
	}
	terms = utils.ClearDuplicateString(terms)
	sort.Strings(terms)
	return terms
}
