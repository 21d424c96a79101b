package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func TestExtractHelpers(t *testing.T) {
	item := map[string]types.AttributeValue{
		"name":  &types.AttributeValueMemberS{Value: "Alice"},
		"coins": &types.AttributeValueMemberN{Value: "42"},
		"done":  &types.AttributeValueMemberBOOL{Value: true},
		"participants": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "alice"},
			&types.AttributeValueMemberS{Value: "bob"},
		}},
	}

	assert.Equal(t, "Alice", ExtractString(item, "name"))
	assert.Equal(t, "", ExtractString(item, "missing"))
	assert.Equal(t, "", ExtractString(item, "coins"), "type mismatch yields zero value")

	assert.Equal(t, 42, ExtractInt(item, "coins"))
	assert.Equal(t, 0, ExtractInt(item, "name"))

	assert.True(t, ExtractBool(item, "done"))
	assert.False(t, ExtractBool(item, "missing"))

	assert.Equal(t, []string{"alice", "bob"}, ExtractStringList(item, "participants"))
	assert.Nil(t, ExtractStringList(item, "missing"))
	assert.Nil(t, ExtractStringList(item, "name"))
}
