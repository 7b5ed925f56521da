package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseDefaults(t *testing.T) {
	opts := Parse(url.Values{})

	assert.Equal(t, bson.M{}, opts.Filter)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, opts.Sort)
	assert.Nil(t, opts.Projection)
	assert.EqualValues(t, 1, opts.Page)
	assert.EqualValues(t, DefaultLimit, opts.Limit)
	assert.EqualValues(t, 0, opts.Skip())
}

func TestParseFullQuery(t *testing.T) {
	values, err := url.ParseQuery("price[gte]=10&price[lte]=99.5&sort=-price,title&fields=title,price&page=2&limit=5")
	require.NoError(t, err)

	opts := Parse(values)

	assert.Equal(t, bson.M{"price": bson.M{"$gte": 10.0, "$lte": 99.5}}, opts.Filter)
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "title", Value: 1}}, opts.Sort)
	assert.Equal(t, bson.M{"title": 1, "price": 1}, opts.Projection)
	assert.EqualValues(t, 2, opts.Page)
	assert.EqualValues(t, 5, opts.Limit)
	assert.EqualValues(t, 5, opts.Skip())
}

func TestParseEqualityTypes(t *testing.T) {
	values := url.Values{
		"stock":      {"3"},
		"isRentable": {"true"},
		"slug":       {"gaming-laptop"},
	}

	opts := Parse(values)

	assert.Equal(t, 3.0, opts.Filter["stock"])
	assert.Equal(t, true, opts.Filter["isRentable"])
	assert.Equal(t, "gaming-laptop", opts.Filter["slug"])
}

func TestParseKeyword(t *testing.T) {
	opts := Parse(url.Values{"keyword": {"phone"}}, "title", "description")

	or, ok := opts.Filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	rx := or[0]["title"].(primitive.Regex)
	assert.Equal(t, "phone", rx.Pattern)
	assert.Equal(t, "i", rx.Options)
	assert.Contains(t, or[1], "description")
}

func TestParseKeywordEscapesRegex(t *testing.T) {
	opts := Parse(url.Values{"keyword": {"c++ (pro)"}}, "title")

	or := opts.Filter["$or"].([]bson.M)
	rx := or[0]["title"].(primitive.Regex)
	assert.Equal(t, `c\+\+ \(pro\)`, rx.Pattern)
}

func TestParseKeywordWithoutSearchFields(t *testing.T) {
	opts := Parse(url.Values{"keyword": {"phone"}})
	assert.NotContains(t, opts.Filter, "$or")
}

func TestParseLimitCap(t *testing.T) {
	opts := Parse(url.Values{"limit": {"1000"}})
	assert.EqualValues(t, MaxLimit, opts.Limit)

	opts = Parse(url.Values{"limit": {"-5"}, "page": {"0"}})
	assert.EqualValues(t, DefaultLimit, opts.Limit)
	assert.EqualValues(t, 1, opts.Page)
}

func TestParseUnknownOperatorIgnored(t *testing.T) {
	opts := Parse(url.Values{"price[regex]": {"boom"}})
	assert.NotContains(t, opts.Filter, "price")
}

func TestParseEmptyValuesSkipped(t *testing.T) {
	opts := Parse(url.Values{"sort": {""}, "title": {""}})
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, opts.Sort)
	assert.Empty(t, opts.Filter)
}
