package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"amora_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory stand-in for the DynamoDB client. It understands
// the key schemas of this project's tables and the update/condition
// expression forms the services issue, and evaluates conditions atomically
// under one lock, mirroring the store-side serialization the ledger relies on.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

var fakeKeySchema = map[string][]string{
	models.UserProfilesTable: {"userId"},
	models.ChatsTable:        {"chatId"},
	models.MessagesTable:     {"chatId", "createdAt"},
	models.PaymentsTable:     {"paymentId"},
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func attrString(attr types.AttributeValue) string {
	switch v := attr.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

func (f *fakeDynamo) compositeKey(table string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range fakeKeySchema[table] {
		parts = append(parts, attrString(item[attr]))
	}
	return strings.Join(parts, "|")
}

func copyAttr(attr types.AttributeValue) types.AttributeValue {
	switch v := attr.(type) {
	case *types.AttributeValueMemberM:
		inner := make(map[string]types.AttributeValue, len(v.Value))
		for k, a := range v.Value {
			inner[k] = copyAttr(a)
		}
		return &types.AttributeValueMemberM{Value: inner}
	case *types.AttributeValueMemberL:
		inner := make([]types.AttributeValue, len(v.Value))
		for i, a := range v.Value {
			inner[i] = copyAttr(a)
		}
		return &types.AttributeValueMemberL{Value: inner}
	default:
		return attr
	}
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, attr := range item {
		out[k] = copyAttr(attr)
	}
	return out
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	if f.tables[table] == nil {
		f.tables[table] = make(map[string]map[string]types.AttributeValue)
	}
	f.tables[table][f.compositeKey(table, params.Item)] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	item := f.tables[table][f.compositeKey(table, params.Key)]
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

// resolveName maps expression aliases (#field) back to attribute names
func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
	}
	return name
}

// Query supports the single form used by the services:
// "<pk> = :<pk>" with an optional #name alias, sorted by the table's sort key.
func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	keyCondition := *params.KeyConditionExpression
	parts := strings.SplitN(keyCondition, "=", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("fake: unsupported key condition %q", keyCondition)
	}
	attr := resolveName(strings.TrimSpace(parts[0]), params.ExpressionAttributeNames)
	want := attrString(params.ExpressionAttributeValues[strings.TrimSpace(parts[1])])

	var items []map[string]types.AttributeValue
	for _, item := range f.tables[table] {
		if attrString(item[attr]) == want {
			items = append(items, copyItem(item))
		}
	}

	schema := fakeKeySchema[table]
	if len(schema) > 1 {
		sortKey := schema[1]
		ascending := params.ScanIndexForward == nil || *params.ScanIndexForward
		sort.SliceStable(items, func(i, j int) bool {
			if ascending {
				return attrString(items[i][sortKey]) < attrString(items[j][sortKey])
			}
			return attrString(items[i][sortKey]) > attrString(items[j][sortKey])
		})
	}
	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

// Scan supports filter expressions of the form "#a <> :a AND #b <> :b"
func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	var items []map[string]types.AttributeValue
	for _, item := range f.tables[table] {
		if params.FilterExpression != nil {
			excluded := false
			for _, clause := range strings.Split(*params.FilterExpression, " AND ") {
				parts := strings.SplitN(clause, "<>", 2)
				if len(parts) != 2 {
					return nil, fmt.Errorf("fake: unsupported filter clause %q", clause)
				}
				attr := resolveName(strings.TrimSpace(parts[0]), params.ExpressionAttributeNames)
				value := attrString(params.ExpressionAttributeValues[strings.TrimSpace(parts[1])])
				if attrString(item[attr]) == value {
					excluded = true
					break
				}
			}
			if excluded {
				continue
			}
		}
		items = append(items, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

func (f *fakeDynamo) checkCondition(condition string, item map[string]types.AttributeValue, values map[string]types.AttributeValue, names map[string]string) bool {
	for _, clause := range strings.Split(condition, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "attribute_exists("):
			attr := strings.TrimSuffix(strings.TrimPrefix(clause, "attribute_exists("), ")")
			if item == nil {
				return false
			}
			if _, ok := item[resolveName(attr, names)]; !ok {
				return false
			}
		case strings.Contains(clause, ">="):
			parts := strings.SplitN(clause, ">=", 2)
			attr := resolveName(strings.TrimSpace(parts[0]), names)
			want, _ := strconv.Atoi(attrString(values[strings.TrimSpace(parts[1])]))
			have := 0
			if item != nil {
				have, _ = strconv.Atoi(attrString(item[attr]))
			}
			if have < want {
				return false
			}
		case strings.Contains(clause, "="):
			parts := strings.SplitN(clause, "=", 2)
			attr := resolveName(strings.TrimSpace(parts[0]), names)
			want := attrString(values[strings.TrimSpace(parts[1])])
			if item == nil || attrString(item[attr]) != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// UpdateItem supports "SET path = :value, ..." (including one-level map
// paths like #unreadCounts.#uid) and "ADD attr :delta" expressions.
func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := *params.TableName
	key := f.compositeKey(table, params.Key)
	item := f.tables[table][key]

	if params.ConditionExpression != nil {
		if !f.checkCondition(*params.ConditionExpression, item, params.ExpressionAttributeValues, params.ExpressionAttributeNames) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}

	if item == nil {
		item = copyItem(params.Key)
	}

	expr := strings.TrimSpace(*params.UpdateExpression)
	switch {
	case strings.HasPrefix(expr, "SET "):
		for _, clause := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
			parts := strings.SplitN(clause, "=", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("fake: unsupported set clause %q", clause)
			}
			path := strings.TrimSpace(parts[0])
			value := params.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
			segments := strings.Split(path, ".")
			if len(segments) == 1 {
				item[resolveName(segments[0], params.ExpressionAttributeNames)] = copyAttr(value)
			} else if len(segments) == 2 {
				parent := resolveName(segments[0], params.ExpressionAttributeNames)
				field := resolveName(segments[1], params.ExpressionAttributeNames)
				parentMap, ok := item[parent].(*types.AttributeValueMemberM)
				if !ok {
					parentMap = &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}}
					item[parent] = parentMap
				}
				parentMap.Value[field] = copyAttr(value)
			} else {
				return nil, fmt.Errorf("fake: unsupported path %q", path)
			}
		}
	case strings.HasPrefix(expr, "ADD "):
		fields := strings.Fields(strings.TrimPrefix(expr, "ADD "))
		if len(fields) != 2 {
			return nil, fmt.Errorf("fake: unsupported add expression %q", expr)
		}
		attr := resolveName(fields[0], params.ExpressionAttributeNames)
		delta, _ := strconv.Atoi(attrString(params.ExpressionAttributeValues[fields[1]]))
		current := 0
		if existing, ok := item[attr]; ok {
			current, _ = strconv.Atoi(attrString(existing))
		}
		item[attr] = &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
	default:
		return nil, fmt.Errorf("fake: unsupported update expression %q", expr)
	}

	if f.tables[table] == nil {
		f.tables[table] = make(map[string]map[string]types.AttributeValue)
	}
	f.tables[table][key] = item
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

// itemCount reports how many items a table holds
func (f *fakeDynamo) itemCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}
