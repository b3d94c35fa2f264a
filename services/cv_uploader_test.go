package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3CVUploader_Upload(t *testing.T) {
	putter := &fakePutter{}
	uploader := NewS3CVUploader(putter, "bucket", "cv/", "https://cdn.example.com/")

	url, err := uploader.Upload(context.Background(), "Resume.PDF", strings.NewReader("%PDF"), 4)
	require.NoError(t, err)

	require.Len(t, putter.inputs, 1)
	key := *putter.inputs[0].Key
	assert.True(t, strings.HasPrefix(key, "cv/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Equal(t, "bucket", *putter.inputs[0].Bucket)
	assert.Equal(t, "application/pdf", *putter.inputs[0].ContentType)
	assert.Equal(t, "%PDF", putter.bodies[0])
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestS3CVUploader_RejectsExtension(t *testing.T) {
	putter := &fakePutter{}
	uploader := NewS3CVUploader(putter, "bucket", "cv/", "https://cdn.example.com")

	_, err := uploader.Upload(context.Background(), "payload.exe", strings.NewReader("x"), 1)
	assert.True(t, errs.IsValidationError(err))
	assert.Empty(t, putter.inputs)
}

func TestS3CVUploader_BreakerOpensAfterFailures(t *testing.T) {
	putter := &fakePutter{err: errors.New("connection reset")}
	uploader := NewS3CVUploader(putter, "bucket", "cv/", "https://cdn.example.com")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := uploader.Upload(ctx, "cv.pdf", strings.NewReader("x"), 1)
		assert.True(t, errs.IsServiceUnavailableError(err))
	}

	_, err := uploader.Upload(ctx, "cv.pdf", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, errs.ErrCircuitBreakerOpen)
}
