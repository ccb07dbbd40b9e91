package blob

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-asset-service/internal/config"
	"model-asset-service/internal/core/domain"
)

// fakeS3 keeps objects in a map and answers like a bucket would.
type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data)), ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestS3Storage_RoundTrip(t *testing.T) {
	fake := newFakeS3()
	st := NewS3StorageWithClient(fake, "assets", "https://assets.example.com")
	ctx := context.Background()

	n, err := st.Put(ctx, "models/3d/rock.gltf", strings.NewReader(`{"asset":{}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	size, err := st.Size(ctx, "models/3d/rock.gltf")
	require.NoError(t, err)
	assert.Equal(t, int64(12), size)

	rc, err := st.Open(ctx, "models/3d/rock.gltf")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, `{"asset":{}}`, string(body))

	assert.Equal(t, "https://assets.example.com/models/3d/rock.gltf", st.URL("models/3d/rock.gltf"))

	require.NoError(t, st.Delete(ctx, "models/3d/rock.gltf"))
	_, err = st.Open(ctx, "models/3d/rock.gltf")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
	_, err = st.Size(ctx, "models/3d/rock.gltf")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestS3Storage_SetsContentType(t *testing.T) {
	fake := newFakeS3()
	st := NewS3StorageWithClient(fake, "assets", "")

	_, err := st.Put(context.Background(), "models/thumbnails/t.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", fake.types["models/thumbnails/t.png"])
}

func TestBucketURL(t *testing.T) {
	assert.Equal(t, "https://assets.s3.eu-west-1.amazonaws.com",
		bucketURL(&config.S3Config{Bucket: "assets", Region: "eu-west-1"}))
	assert.Equal(t, "http://minio:9000/assets",
		bucketURL(&config.S3Config{Bucket: "assets", Endpoint: "http://minio:9000", UsePathStyle: true}))
}
