// Package query translates list-endpoint query strings into mongo filters.
//
// Supported parameters:
//
//	field=value            equality (numbers are parsed when numeric)
//	field[gte]=10          comparison: gte, gt, lte, lt, ne
//	keyword=phone          case-insensitive match over the search fields
//	sort=price,-sold       sort key list, "-" prefix for descending
//	fields=title,price     sparse field projection
//	page=2&limit=20        pagination, limit capped at 100
package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var operators = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
	"ne":  "$ne",
}

var opKey = regexp.MustCompile(`^(\w+)\[(\w+)\]$`)

type Options struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Page       int64
	Limit      int64
}

func (o Options) Skip() int64 {
	return (o.Page - 1) * o.Limit
}

// Parse builds query options from raw URL parameters. searchFields are the
// document fields the keyword parameter matches against.
func Parse(values url.Values, searchFields ...string) Options {
	opts := Options{
		Filter: bson.M{},
		Sort:   bson.D{{Key: "createdAt", Value: -1}},
		Page:   1,
		Limit:  DefaultLimit,
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		val := vals[0]

		switch key {
		case "page":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
				opts.Page = n
			}
		case "limit":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
				if n > MaxLimit {
					n = MaxLimit
				}
				opts.Limit = n
			}
		case "sort":
			opts.Sort = parseSort(val)
		case "fields":
			opts.Projection = parseFields(val)
		case "keyword":
			if len(searchFields) > 0 {
				opts.Filter["$or"] = keywordFilter(val, searchFields)
			}
		default:
			field, op := splitKey(key)
			if op == "" {
				opts.Filter[field] = parseValue(val)
				continue
			}
			mongoOp, ok := operators[op]
			if !ok {
				continue
			}
			cond, _ := opts.Filter[field].(bson.M)
			if cond == nil {
				cond = bson.M{}
			}
			cond[mongoOp] = parseValue(val)
			opts.Filter[field] = cond
		}
	}

	return opts
}

func splitKey(key string) (field, op string) {
	m := opKey.FindStringSubmatch(key)
	if m == nil {
		return key, ""
	}
	return m[1], m[2]
}

func parseValue(val string) interface{} {
	if n, err := strconv.ParseFloat(val, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

func parseSort(val string) bson.D {
	var sort bson.D
	for _, key := range strings.Split(val, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(key, "-") {
			dir = -1
			key = key[1:]
		}
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	if len(sort) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return sort
}

func parseFields(val string) bson.M {
	projection := bson.M{}
	for _, f := range strings.Split(val, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			projection[f] = 1
		}
	}
	return projection
}

func keywordFilter(keyword string, fields []string) []bson.M {
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	or := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: rx})
	}
	return or
}
