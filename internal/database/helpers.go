package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazario-backend/internal/query"
)

func mongoReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// findPage runs the filtered, sorted, paginated find described by opts and
// decodes the page into out, returning the total match count alongside.
func findPage(ctx context.Context, coll *mongo.Collection, opts query.Options, out interface{}) (int64, error) {
	total, err := coll.CountDocuments(ctx, opts.Filter)
	if err != nil {
		return 0, err
	}

	findOpts := options.Find().
		SetSort(opts.Sort).
		SetSkip(opts.Skip()).
		SetLimit(opts.Limit)
	if opts.Projection != nil {
		findOpts.SetProjection(opts.Projection)
	}

	cur, err := coll.Find(ctx, opts.Filter, findOpts)
	if err != nil {
		return 0, err
	}
	if err := cur.All(ctx, out); err != nil {
		return 0, err
	}
	return total, nil
}
