package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/onea-energy-optimizer/internal/domain"
)

type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
	puts  []*dynamodb.PutItemInput
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	key := in.Item["feed"].(*types.AttributeValueMemberS).Value
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	key := in.Key["feed"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	out := &dynamodb.ScanOutput{}
	for _, it := range f.items {
		out.Items = append(out.Items, it)
	}
	return out, nil
}

func TestDynamoFeedStore(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
	c := &DynamoDBClient{svc: fake, table: "AnalyticsFeeds"}
	ctx := context.Background()
	at := time.Unix(1767225600, 0).UTC()

	require.NoError(t, c.PutFeed(ctx, domain.FeedDocument{Feed: domain.FeedSchedule, Payload: []byte(`[]`), UpdatedAt: at}))
	require.NoError(t, c.PutFeed(ctx, domain.FeedDocument{Feed: domain.FeedKPI, Payload: []byte(`{"total_anomalies":3}`), UpdatedAt: at}))

	require.Len(t, fake.puts, 2)
	assert.Equal(t, "AnalyticsFeeds", aws.ToString(fake.puts[0].TableName))

	doc, err := c.GetFeed(ctx, domain.FeedKPI)
	require.NoError(t, err)
	assert.Equal(t, domain.FeedKPI, doc.Feed)
	assert.JSONEq(t, `{"total_anomalies":3}`, string(doc.Payload))
	assert.Equal(t, at, doc.UpdatedAt)

	_, err = c.GetFeed(ctx, domain.FeedRanking)
	assert.ErrorIs(t, err, domain.ErrFeedNotFound)

	all, err := c.ListFeeds(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.FeedKPI, all[0].Feed)
	assert.Equal(t, domain.FeedSchedule, all[1].Feed)
}

type fakeS3 struct {
	key  string
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(in.Key)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct{ expires time.Duration }

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://example.invalid/" + aws.ToString(in.Key) + "?sig=1"}, nil
}

func TestSnapshotKey(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	at := time.Date(2026, 1, 15, 23, 30, 0, 0, time.FixedZone("WAT", 3600))

	assert.Equal(t, "snapshots/2026-01-15/7d444840-9dc0-11d1-b245-5ffdce74fad2.html", SnapshotKey(at, id))
}

func TestUploadSnapshot(t *testing.T) {
	store, presign := &fakeS3{}, &fakePresigner{}
	c := &S3Client{svc: store, presign: presign, bucket: "energy-grid-reports"}

	snap, err := c.UploadSnapshot(context.Background(), []byte("<html></html>"), time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^snapshots/2026-01-15/[0-9a-f-]{36}\.html$`), snap.Key)
	assert.Equal(t, snap.Key, store.key)
	assert.Equal(t, "<html></html>", string(store.body))
	assert.Equal(t, time.Hour, presign.expires)
	assert.Contains(t, snap.URL, snap.Key)
}

func TestUploadSnapshotError(t *testing.T) {
	c := &S3Client{svc: &fakeS3{err: errors.New("access denied")}, presign: &fakePresigner{}, bucket: "b"}

	_, err := c.UploadSnapshot(context.Background(), nil, time.Now())
	assert.ErrorContains(t, err, "access denied")
}

type fakeSNS struct{ in *sns.PublishInput }

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendSnapshotReport(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{svc: fake, topicArn: "arn:aws:sns:us-east-1:123:onea"}
	snap := &Snapshot{Key: "snapshots/2026-01-15/x.html", URL: "https://example.invalid/x"}
	statuses := []RoutineStatus{
		{Routine: "kpi", State: "rendered"},
		{Routine: "ranking", State: "failed", Err: errors.New("network error")},
	}

	require.NoError(t, c.SendSnapshotReport(context.Background(), snap, statuses, time.Unix(0, 0)))

	require.NotNil(t, fake.in)
	assert.Equal(t, "arn:aws:sns:us-east-1:123:onea", aws.ToString(fake.in.TopicArn))
	assert.Equal(t, "ONEA Dashboard Snapshot: 1/2 sections failed", aws.ToString(fake.in.Subject))
	msg := aws.ToString(fake.in.Message)
	assert.Contains(t, msg, "- kpi: rendered\n")
	assert.Contains(t, msg, "- ranking: failed (network error)\n")
	assert.Contains(t, msg, "https://example.invalid/x")
}

func TestSnapshotMessageAllRendered(t *testing.T) {
	subject, _ := SnapshotMessage(&Snapshot{}, []RoutineStatus{{Routine: "kpi", State: "rendered"}}, time.Now())
	assert.Equal(t, "ONEA Dashboard Snapshot", subject)
}

type fakeLambda struct {
	in  *lambda.InvokeInput
	out *lambda.InvokeOutput
}

func (f *fakeLambda) Invoke(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.in = in
	return f.out, nil
}

func TestInvokeAnalyticsAsync(t *testing.T) {
	fake := &fakeLambda{out: &lambda.InvokeOutput{StatusCode: 202}}
	c := &LambdaClient{svc: fake, function: "analytics-processing"}

	require.NoError(t, c.InvokeAnalyticsAsync(context.Background(), "2026-01-15"))

	assert.Equal(t, "analytics-processing", aws.ToString(fake.in.FunctionName))
	assert.Equal(t, lambdatypes.InvocationTypeEvent, fake.in.InvocationType)
	var payload AnalyticsProcessingPayload
	require.NoError(t, json.Unmarshal(fake.in.Payload, &payload))
	assert.Equal(t, "2026-01-15", payload.Date)
}

func TestInvokeAnalyticsAsyncFunctionError(t *testing.T) {
	fake := &fakeLambda{out: &lambda.InvokeOutput{FunctionError: aws.String("Unhandled")}}
	c := &LambdaClient{svc: fake, function: "analytics-processing"}

	assert.ErrorContains(t, c.InvokeAnalyticsAsync(context.Background(), "2026-01-15"), "Unhandled")
}
