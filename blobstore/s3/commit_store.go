package s3

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/hupe1980/vaultgraph/blobstore"
)

// ErrConcurrentModification is returned when another writer committed the
// same version first and retries were exhausted.
var ErrConcurrentModification = errors.New("concurrent modification detected")

const (
	attrBlob    = "blob"
	attrVersion = "version"
	attrKey     = "object_key"

	versionSep = ".v"

	defaultCommitRetries = 3
)

// CommitStore implements blobstore.BlobStore on S3 with DynamoDB as the
// commit log. Every Put uploads a new immutable object version and then
// conditionally records it in DynamoDB, so readers never observe a partially
// written snapshot and concurrent writers never silently overwrite each other.
//
// Table schema:
//   - Partition key: blob (string), the bucket-qualified blob name
//   - Sort key: version (number), monotonically increasing
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name vaultgraph-commits \
//	  --attribute-definitions AttributeName=blob,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=blob,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	objects   *Store
	ddb       DDBClient
	tableName string
	retries   int
}

// NewCommitStore creates a commit store writing objects through objects.
func NewCommitStore(objects *Store, ddb DDBClient, tableName string) *CommitStore {
	return &CommitStore{
		objects:   objects,
		ddb:       ddb,
		tableName: tableName,
		retries:   defaultCommitRetries,
	}
}

func (s *CommitStore) partition(name string) string {
	return "s3://" + s.objects.bucket + "/" + s.objects.key(name)
}

// versionedName makes object keys unique per attempt so a losing writer never
// overwrites the winner's object.
func versionedName(name string, version uint64) string {
	return name + versionSep + strconv.FormatUint(version, 10) + "-" + uuid.NewString()
}

func logicalName(key string) (string, bool) {
	i := strings.LastIndex(key, versionSep)
	if i < 0 {
		return "", false
	}
	rest := key[i+len(versionSep):]
	if j := strings.IndexByte(rest, '-'); j >= 0 {
		rest = rest[:j]
	}
	if _, err := strconv.ParseUint(rest, 10, 64); err != nil {
		return "", false
	}
	return key[:i], true
}

// Open opens the latest committed version of a blob.
func (s *CommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	version, key, err := s.latest(ctx, name)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, blobstore.ErrNotFound
	}
	b, err := openBlob(ctx, s.objects.client, s.objects.bucket, key)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Put uploads data as a new version and commits it.
func (s *CommitStore) Put(ctx context.Context, name string, data []byte) error {
	for attempt := 0; ; attempt++ {
		current, _, err := s.latest(ctx, name)
		if err != nil {
			return err
		}
		next := current + 1
		key := s.objects.key(versionedName(name, next))

		if err := s.objects.putKey(ctx, key, data); err != nil {
			return err
		}

		err = s.commit(ctx, name, next, key)
		if err == nil {
			return nil
		}

		_ = s.objects.deleteKey(ctx, key)
		if !errors.Is(err, ErrConcurrentModification) || attempt+1 >= s.retries {
			return err
		}
	}
}

// Delete removes every committed version of a blob.
func (s *CommitStore) Delete(ctx context.Context, name string) error {
	versions, err := s.versions(ctx, name, 0)
	if err != nil {
		return err
	}
	for _, v := range versions {
		if err := s.objects.deleteKey(ctx, v.key); err != nil {
			return err
		}
		if _, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				attrBlob:    &types.AttributeValueMemberS{Value: s.partition(name)},
				attrVersion: &types.AttributeValueMemberN{Value: strconv.FormatUint(v.version, 10)},
			},
		}); err != nil {
			return fmt.Errorf("delete commit %s@%d: %w", name, v.version, err)
		}
	}
	return nil
}

// List returns the logical names of blobs with at least one stored version.
func (s *CommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.objects.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(keys))
	var names []string
	for _, k := range keys {
		name, ok := logicalName(k)
		if !ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type commitVersion struct {
	version uint64
	key     string
}

func (s *CommitStore) latest(ctx context.Context, name string) (uint64, string, error) {
	versions, err := s.versions(ctx, name, 1)
	if err != nil || len(versions) == 0 {
		return 0, "", err
	}
	return versions[0].version, versions[0].key, nil
}

// versions returns commits newest first. A limit of 0 returns all of them.
func (s *CommitStore) versions(ctx context.Context, name string, limit int32) ([]commitVersion, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("#b = :b"),
		ExpressionAttributeNames: map[string]string{
			"#b": attrBlob,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":b": &types.AttributeValueMemberS{Value: s.partition(name)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	var out []commitVersion
	for {
		resp, err := s.ddb.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query commits for %s: %w", name, err)
		}
		for _, item := range resp.Items {
			v, err := parseCommit(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		if limit > 0 || len(resp.LastEvaluatedKey) == 0 {
			return out, nil
		}
		input.ExclusiveStartKey = resp.LastEvaluatedKey
	}
}

func parseCommit(item map[string]types.AttributeValue) (commitVersion, error) {
	n, ok := item[attrVersion].(*types.AttributeValueMemberN)
	if !ok {
		return commitVersion{}, errors.New("invalid version attribute in commit log")
	}
	k, ok := item[attrKey].(*types.AttributeValueMemberS)
	if !ok {
		return commitVersion{}, errors.New("invalid object_key attribute in commit log")
	}
	version, err := strconv.ParseUint(n.Value, 10, 64)
	if err != nil {
		return commitVersion{}, fmt.Errorf("parse version: %w", err)
	}
	return commitVersion{version: version, key: k.Value}, nil
}

func (s *CommitStore) commit(ctx context.Context, name string, version uint64, key string) error {
	_, err := s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			attrBlob:    &types.AttributeValueMemberS{Value: s.partition(name)},
			attrVersion: &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			attrKey:     &types.AttributeValueMemberS{Value: key},
		},
		ConditionExpression: aws.String("attribute_not_exists(#v)"),
		ExpressionAttributeNames: map[string]string{
			"#v": attrVersion,
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("commit %s@%d: %w", name, version, err)
	}
	return nil
}
