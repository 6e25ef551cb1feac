package storage

import (
    "context"
    "errors"
    "io"
    "strings"
    "testing"

    "github.com/aws/aws-sdk-go-v2/aws"
    "github.com/aws/aws-sdk-go-v2/service/s3"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/ecotour-booking/internal/config"
)

type fakeS3 struct {
    input *s3.PutObjectInput
    body  string
    err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
    f.input = in
    b, _ := io.ReadAll(in.Body)
    f.body = string(b)
    return &s3.PutObjectOutput{}, f.err
}

func TestPutUploadsAndReturnsPublicURL(t *testing.T) {
    fake := &fakeS3{}
    store := newS3ImageStore(fake, "tour-images", "https://cdn.example.com/")

    url, err := store.Put(context.Background(), "tours/abc.png", "image/png", strings.NewReader("png-bytes"), 9)
    require.NoError(t, err)
    assert.Equal(t, "https://cdn.example.com/tours/abc.png", url)

    require.NotNil(t, fake.input)
    assert.Equal(t, "tour-images", aws.ToString(fake.input.Bucket))
    assert.Equal(t, "tours/abc.png", aws.ToString(fake.input.Key))
    assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
    assert.EqualValues(t, 9, aws.ToInt64(fake.input.ContentLength))
    assert.Equal(t, "png-bytes", fake.body)
}

func TestPutWrapsClientError(t *testing.T) {
    boom := errors.New("access denied")
    store := newS3ImageStore(&fakeS3{err: boom}, "b", "https://x")

    _, err := store.Put(context.Background(), "tours/k.jpg", "image/jpeg", strings.NewReader(""), 0)
    assert.ErrorIs(t, err, boom)
}

func TestNewS3ImageStoreRequiresBucket(t *testing.T) {
    _, err := NewS3ImageStore(context.Background(), config.StorageConfig{PublicBaseURL: "https://x"})
    assert.ErrorIs(t, err, ErrNotConfigured)
}
