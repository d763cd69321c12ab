package storage

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// TestMongoStoreInterfaceCompliance verifies MongoStore implements PasteStore
// at compile time
func TestMongoStoreInterfaceCompliance(t *testing.T) {
	var _ PasteStore = (*MongoStore)(nil)
	t.Log("MongoStore correctly implements PasteStore interface")
}

func TestExpiryFilterShape(t *testing.T) {
	now := time.Now()
	filter := expiryFilter(now)

	or, ok := filter["$or"].(bson.A)
	if !ok {
		t.Fatal("expected $or clause")
	}
	if len(or) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(or))
	}

	timeClause, ok := or[0].(bson.M)
	if !ok {
		t.Fatal("expected time branch to be a document")
	}
	expiresAt, ok := timeClause["expires_at"].(bson.M)
	if !ok {
		t.Fatal("expected expires_at condition")
	}
	if expiresAt["$lte"] != now {
		t.Errorf("expected $lte bound to now, got %v", expiresAt["$lte"])
	}

	viewClause, ok := or[1].(bson.M)
	if !ok {
		t.Fatal("expected view branch to be a document")
	}
	if _, ok := viewClause["$expr"]; !ok {
		t.Error("expected $expr comparing view_count to max_views")
	}
}
