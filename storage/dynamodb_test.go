package storage

import (
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TestDynamoStoreInterfaceCompliance verifies DynamoStore implements
// PasteStore at compile time
func TestDynamoStoreInterfaceCompliance(t *testing.T) {
	var _ PasteStore = (*DynamoStore)(nil)
	t.Log("DynamoStore correctly implements PasteStore interface")
}

func TestItemToPaste(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expires := created.Add(time.Hour)

	item := map[string]types.AttributeValue{
		"id":              &types.AttributeValueMemberS{Value: "abcd2345"},
		"content":         &types.AttributeValueMemberS{Value: "hello"},
		"title":           &types.AttributeValueMemberS{Value: "Untitled"},
		"syntax":          &types.AttributeValueMemberS{Value: "plaintext"},
		"expiration_type": &types.AttributeValueMemberS{Value: "both"},
		"expires_at":      &types.AttributeValueMemberN{Value: strconv.FormatInt(expires.Unix(), 10)},
		"max_views":       &types.AttributeValueMemberN{Value: "10"},
		"view_count":      &types.AttributeValueMemberN{Value: "3"},
		"created_at":      &types.AttributeValueMemberN{Value: strconv.FormatInt(created.Unix(), 10)},
		"updated_at":      &types.AttributeValueMemberN{Value: strconv.FormatInt(created.Unix(), 10)},
	}

	paste := itemToPaste(item)

	if paste.ID != "abcd2345" {
		t.Errorf("ID = %q", paste.ID)
	}
	if paste.Content != "hello" {
		t.Errorf("Content = %q", paste.Content)
	}
	if paste.ExpirationType != "both" {
		t.Errorf("ExpirationType = %q", paste.ExpirationType)
	}
	if paste.ExpiresAt == nil || paste.ExpiresAt.Unix() != expires.Unix() {
		t.Errorf("ExpiresAt = %v, want %v", paste.ExpiresAt, expires)
	}
	if paste.MaxViews == nil || *paste.MaxViews != 10 {
		t.Errorf("MaxViews = %v, want 10", paste.MaxViews)
	}
	if paste.ViewCount != 3 {
		t.Errorf("ViewCount = %d, want 3", paste.ViewCount)
	}
	if paste.CreatedAt.Unix() != created.Unix() {
		t.Errorf("CreatedAt = %v, want %v", paste.CreatedAt, created)
	}
}

func TestItemToPaste_OptionalFieldsAbsent(t *testing.T) {
	item := map[string]types.AttributeValue{
		"id":              &types.AttributeValueMemberS{Value: "abcd2345"},
		"content":         &types.AttributeValueMemberS{Value: "hello"},
		"expiration_type": &types.AttributeValueMemberS{Value: "never"},
		"view_count":      &types.AttributeValueMemberN{Value: "0"},
	}

	paste := itemToPaste(item)

	if paste.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", paste.ExpiresAt)
	}
	if paste.MaxViews != nil {
		t.Errorf("MaxViews = %v, want nil", paste.MaxViews)
	}
	if paste.IsExpired() {
		t.Error("a never-expiring paste must not report expired")
	}
}
