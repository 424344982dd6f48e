package aws

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/kejiahp/QRcode-event-manager/config"
	"github.com/kejiahp/QRcode-event-manager/pkg/qrcode"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	headErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = b
	f.types[*in.Key] = *in.ContentType

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Key)

	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

var storageCfg = config.StorageConfig{
	Bucket:    "qr",
	PublicURL: "https://cdn.example.com",
	Folder:    "qrcode_event_manager",
}

func TestS3Client(t *testing.T) {
	t.Parallel()

	t.Run("upload returns public url and key", func(t *testing.T) {
		fake := newFakeS3()
		c, err := Wrap(context.Background(), fake, storageCfg)
		require.NoError(t, err)

		img, err := qrcode.PNG("hello")
		require.NoError(t, err)

		url, key, err := c.Upload(context.Background(), "INVITE_x.png", img)
		require.NoError(t, err)
		require.Equal(t, "qrcode_event_manager/INVITE_x.png", key)
		require.Equal(t, "https://cdn.example.com/qrcode_event_manager/INVITE_x.png", url)
		require.Equal(t, img, fake.objects[key])
		require.Equal(t, "image/png", fake.types[key])
	})

	t.Run("delete removes the object", func(t *testing.T) {
		fake := newFakeS3()
		c, err := Wrap(context.Background(), fake, storageCfg)
		require.NoError(t, err)

		_, key, err := c.Upload(context.Background(), "a.png", []byte("not really a png"))
		require.NoError(t, err)
		require.NoError(t, c.Delete(context.Background(), key))
		require.NotContains(t, fake.objects, key)
	})

	t.Run("missing bucket is reported", func(t *testing.T) {
		fake := newFakeS3()
		fake.headErr = &smithy.GenericAPIError{Code: "NotFound"}

		_, err := Wrap(context.Background(), fake, storageCfg)
		require.ErrorContains(t, err, "bucket 'qr' does not exist")
	})
}
