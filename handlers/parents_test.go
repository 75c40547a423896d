package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSeedParentCounter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("advances counter to the highest existing ID", func(mt *mtest.T) {
		h := NewHandler(mt.Client, "testdb", "secret", &fakeMailer{})

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "testdb.parents", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "parentId", Value: 7},
			}),
			mtest.CreateSuccessResponse(),
		)

		require.NoError(mt, h.SeedParentCounter(context.Background()))
	})

	mt.Run("no parents leaves the counter untouched", func(mt *mtest.T) {
		h := NewHandler(mt.Client, "testdb", "secret", &fakeMailer{})

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "testdb.parents", mtest.FirstBatch))

		require.NoError(mt, h.SeedParentCounter(context.Background()))
	})
}
