package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ProfileQuery defines the structure of a profile search request
type ProfileQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	ResumeID   string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(pq ProfileQuery) (*esapi.SearchRequest, error) {
	if pq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch pq.QueryType {
	case "profile_search":
		queryBody = buildProfileSearchQuery(pq)
	case "skill_filter":
		queryBody = buildSkillFilterQuery(pq)
	case "similar_profiles":
		queryBody = buildSimilarProfilesQuery(pq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, pq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{pq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &pq.Pagination.From,
		Size:   &pq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildProfileSearchQuery builds the main profile search query dynamically
func buildProfileSearchQuery(pq ProfileQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search
	if keywords, ok := pq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "skills^2", "raw_text"},
				"type":   "best_fields",
			},
		})
	}

	// Location filter
	if location, ok := pq.Filters["location"].(string); ok && location != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"match": map[string]interface{}{"location": location},
		})
	}

	// Skill filter
	if terms := stringTerms(pq.Filters["skills"]); len(terms) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"terms": map[string]interface{}{"skills": terms},
		})
	}

	// Experience range filter
	if rangeClause := experienceRangeClause(pq.Filters["experienceYears"]); rangeClause != nil {
		filterClauses = append(filterClauses, rangeClause)
	}

	// Confidence floor
	if minConfidence, ok := numericValue(pq.Filters["minConfidence"]); ok && minConfidence > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"confidence": map[string]interface{}{"gte": minConfidence},
			},
		})
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := pq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "experience_years":
			query["sort"] = []map[string]interface{}{{"experience_years": "desc"}}
		case "confidence":
			query["sort"] = []map[string]interface{}{{"confidence": "desc"}}
		}
	}

	return query
}

// buildSkillFilterQuery narrows the candidate pool to profiles carrying all
// requested skills. Without skills there is nothing to filter on and the
// query matches nothing rather than everything.
func buildSkillFilterQuery(pq ProfileQuery) map[string]interface{} {
	terms := stringTerms(pq.Filters["skills"])
	if len(terms) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	filterClauses := []interface{}{
		map[string]interface{}{
			"terms": map[string]interface{}{"skills": terms},
		},
	}

	if rangeClause := experienceRangeClause(pq.Filters["experienceYears"]); rangeClause != nil {
		filterClauses = append(filterClauses, rangeClause)
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   []interface{}{map[string]interface{}{"match_all": map[string]interface{}{}}},
				"filter": filterClauses,
			},
		},
	}
}

// buildSimilarProfilesQuery builds a "profiles like this one" query
func buildSimilarProfilesQuery(pq ProfileQuery) map[string]interface{} {
	if pq.ResumeID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name", "raw_text", "skills"},
				"like": []map[string]interface{}{
					{"_index": pq.Index, "_id": pq.ResumeID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

func experienceRangeClause(raw interface{}) map[string]interface{} {
	expRange, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}

	bounds := map[string]interface{}{}
	if minVal, ok := numericValue(expRange["min"]); ok && minVal > 0 {
		bounds["gte"] = minVal
	}
	if maxVal, ok := numericValue(expRange["max"]); ok && maxVal > 0 {
		bounds["lte"] = maxVal
	}
	if len(bounds) == 0 {
		return nil
	}

	return map[string]interface{}{
		"range": map[string]interface{}{"experience_years": bounds},
	}
}

func numericValue(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func stringTerms(raw interface{}) []string {
	values, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	terms := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			terms = append(terms, s)
		}
	}
	return terms
}
