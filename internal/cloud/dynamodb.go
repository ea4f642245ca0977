package cloud

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBClient stores feed documents in a DynamoDB table keyed by feed name.
type DynamoDBClient struct {
	svc   dynamoAPI
	table string
}

// NewDynamoDBClient creates a new DynamoDB client instance
func NewDynamoDBClient(ctx context.Context, region, table string) (*DynamoDBClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &DynamoDBClient{svc: dynamodb.NewFromConfig(cfg), table: table}, nil
}

// feedItem is the DynamoDB structure for a feed document
type feedItem struct {
	Feed      string `dynamodbav:"feed"`
	Payload   string `dynamodbav:"payload"`
	UpdatedAt int64  `dynamodbav:"updatedAt"`
}

func (it feedItem) document() domain.FeedDocument {
	return domain.FeedDocument{
		Feed:      domain.Feed(it.Feed),
		Payload:   []byte(it.Payload),
		UpdatedAt: time.Unix(it.UpdatedAt, 0).UTC(),
	}
}

// PutFeed replaces the stored document of a feed.
func (c *DynamoDBClient) PutFeed(ctx context.Context, doc domain.FeedDocument) error {
	item, err := attributevalue.MarshalMap(feedItem{
		Feed:      string(doc.Feed),
		Payload:   string(doc.Payload),
		UpdatedAt: doc.UpdatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal feed %s: %w", doc.Feed, err)
	}

	_, err = c.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put feed %s in DynamoDB: %w", doc.Feed, err)
	}
	return nil
}

func (c *DynamoDBClient) GetFeed(ctx context.Context, feed domain.Feed) (*domain.FeedDocument, error) {
	out, err := c.svc.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			"feed": &types.AttributeValueMemberS{Value: string(feed)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get feed %s from DynamoDB: %w", feed, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, feed)
	}

	var it feedItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed %s: %w", feed, err)
	}
	doc := it.document()
	return &doc, nil
}

// ListFeeds scans the whole table. It holds one item per feed.
func (c *DynamoDBClient) ListFeeds(ctx context.Context) ([]domain.FeedDocument, error) {
	paginator := dynamodb.NewScanPaginator(c.svc, &dynamodb.ScanInput{
		TableName: aws.String(c.table),
	})

	var docs []domain.FeedDocument
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feeds: %w", err)
		}
		var items []feedItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feeds: %w", err)
		}
		for _, it := range items {
			docs = append(docs, it.document())
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Feed < docs[j].Feed })
	return docs, nil
}

